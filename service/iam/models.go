package iam

import (
	"time"

	"github.com/kbukum/cloudkit/client"
)

// ResponseMetadata is present in every query response.
type ResponseMetadata struct {
	RequestID string `xml:"ResponseMetadata>RequestId"`
}

// Tag is a key/value label on a user.
type Tag struct {
	Key   string `xml:"Key" validate:"required,max=128"`
	Value string `xml:"Value" validate:"max=256"`
}

// User describes a user.
type User struct {
	Path       string    `xml:"Path"`
	UserName   string    `xml:"UserName"`
	UserID     string    `xml:"UserId"`
	Arn        string    `xml:"Arn"`
	CreateDate time.Time `xml:"CreateDate"`
	Tags       []Tag     `xml:"Tags>member"`
}

type CreateUserInput struct {
	client.RequestOptions
	UserName            string `validate:"required,max=64"`
	Path                string `validate:"omitempty,max=512,startswith=/,endswith=/"`
	PermissionsBoundary string `validate:"omitempty,arn"`
	Tags                []Tag  `validate:"max=50,dive"`
}

type createUserParams struct {
	UserName            *string
	Path                *string
	PermissionsBoundary *string
	Tags                []Tag `type:"list"`
}

func (in *CreateUserInput) params() any {
	p := &createUserParams{
		UserName:            &in.UserName,
		Path:                optional(in.Path),
		PermissionsBoundary: optional(in.PermissionsBoundary),
	}
	if len(in.Tags) > 0 {
		p.Tags = in.Tags
	}
	return p
}

type CreateUserOutput struct {
	User *User `xml:"CreateUserResult>User"`
	ResponseMetadata
}

type GetUserInput struct {
	client.RequestOptions
	// UserName defaults to the caller.
	UserName string `validate:"max=64"`
}

type getUserParams struct {
	UserName *string
}

func (in *GetUserInput) params() any {
	return &getUserParams{UserName: optional(in.UserName)}
}

type GetUserOutput struct {
	User *User `xml:"GetUserResult>User"`
	ResponseMetadata
}

type DeleteUserInput struct {
	client.RequestOptions
	UserName string `validate:"required,max=64"`
}

type deleteUserParams struct {
	UserName *string
}

func (in *DeleteUserInput) params() any {
	return &deleteUserParams{UserName: &in.UserName}
}

type DeleteUserOutput struct {
	ResponseMetadata
}

type ListUsersInput struct {
	client.RequestOptions
	PathPrefix string `validate:"omitempty,max=512,startswith=/"`
	Marker     string
	MaxItems   int `validate:"omitempty,min=1,max=1000"`
}

type listUsersParams struct {
	PathPrefix *string
	Marker     *string
	MaxItems   *int
}

func (in *ListUsersInput) params() any {
	p := &listUsersParams{
		PathPrefix: optional(in.PathPrefix),
		Marker:     optional(in.Marker),
	}
	if in.MaxItems > 0 {
		p.MaxItems = &in.MaxItems
	}
	return p
}

type ListUsersOutput struct {
	Users       []User `xml:"ListUsersResult>Users>member"`
	IsTruncated bool   `xml:"ListUsersResult>IsTruncated"`
	Marker      string `xml:"ListUsersResult>Marker"`
	ResponseMetadata
}

type AttachUserPolicyInput struct {
	client.RequestOptions
	UserName  string `validate:"required,max=64"`
	PolicyArn string `validate:"required,arn"`
}

type attachUserPolicyParams struct {
	UserName  *string
	PolicyArn *string
}

func (in *AttachUserPolicyInput) params() any {
	return &attachUserPolicyParams{UserName: &in.UserName, PolicyArn: &in.PolicyArn}
}

type AttachUserPolicyOutput struct {
	ResponseMetadata
}

// optional maps an empty string to an omitted parameter.
func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
