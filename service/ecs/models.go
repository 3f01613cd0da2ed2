package ecs

import "github.com/kbukum/cloudkit/client"

// Tag is a key/value label on a resource.
type Tag struct {
	Key   string `json:"key" validate:"required,max=128"`
	Value string `json:"value,omitempty" validate:"max=256"`
}

// Cluster describes a cluster.
type Cluster struct {
	ClusterArn                        string `json:"clusterArn,omitempty"`
	ClusterName                       string `json:"clusterName,omitempty"`
	Status                            string `json:"status,omitempty"`
	RegisteredContainerInstancesCount int    `json:"registeredContainerInstancesCount,omitempty"`
	RunningTasksCount                 int    `json:"runningTasksCount,omitempty"`
	PendingTasksCount                 int    `json:"pendingTasksCount,omitempty"`
	ActiveServicesCount               int    `json:"activeServicesCount,omitempty"`
	Tags                              []Tag  `json:"tags,omitempty"`
}

// Task describes a task.
type Task struct {
	TaskArn           string  `json:"taskArn,omitempty"`
	ClusterArn        string  `json:"clusterArn,omitempty"`
	TaskDefinitionArn string  `json:"taskDefinitionArn,omitempty"`
	LastStatus        string  `json:"lastStatus,omitempty"`
	DesiredStatus     string  `json:"desiredStatus,omitempty"`
	LaunchType        string  `json:"launchType,omitempty"`
	StartedBy         string  `json:"startedBy,omitempty"`
	Group             string  `json:"group,omitempty"`
	StoppedReason     string  `json:"stoppedReason,omitempty"`
	CreatedAt         float64 `json:"createdAt,omitempty"`
}

// Failure reports a resource the service could not act on.
type Failure struct {
	Arn    string `json:"arn,omitempty"`
	Reason string `json:"reason,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Launch types accepted by RunTask.
const (
	LaunchTypeEC2      = "EC2"
	LaunchTypeFargate  = "FARGATE"
	LaunchTypeExternal = "EXTERNAL"
)

type CreateClusterInput struct {
	client.RequestOptions
	ClusterName string `json:"clusterName,omitempty" validate:"max=255"`
	Tags        []Tag  `json:"tags,omitempty" validate:"max=50,dive"`
}

type CreateClusterOutput struct {
	Cluster *Cluster `json:"cluster,omitempty"`
}

type DeleteClusterInput struct {
	client.RequestOptions
	Cluster string `json:"cluster" validate:"required"`
}

type DeleteClusterOutput struct {
	Cluster *Cluster `json:"cluster,omitempty"`
}

type DescribeClustersInput struct {
	client.RequestOptions
	// Clusters are names or ARNs; empty describes the default cluster.
	Clusters []string `json:"clusters,omitempty" validate:"max=100"`
	Include  []string `json:"include,omitempty" validate:"dive,oneof=ATTACHMENTS CONFIGURATIONS SETTINGS STATISTICS TAGS"`
}

type DescribeClustersOutput struct {
	Clusters []Cluster `json:"clusters,omitempty"`
	Failures []Failure `json:"failures,omitempty"`
}

type ListClustersInput struct {
	client.RequestOptions
	MaxResults int    `json:"maxResults,omitempty" validate:"omitempty,min=1,max=100"`
	NextToken  string `json:"nextToken,omitempty"`
}

type ListClustersOutput struct {
	ClusterArns []string `json:"clusterArns,omitempty"`
	NextToken   string   `json:"nextToken,omitempty"`
}

type RunTaskInput struct {
	client.RequestOptions
	Cluster        string `json:"cluster,omitempty"`
	TaskDefinition string `json:"taskDefinition" validate:"required"`
	Count          int    `json:"count,omitempty" validate:"omitempty,min=1,max=10"`
	LaunchType     string `json:"launchType,omitempty" validate:"omitempty,oneof=EC2 FARGATE EXTERNAL"`
	StartedBy      string `json:"startedBy,omitempty" validate:"max=128"`
	Group          string `json:"group,omitempty" validate:"max=255"`
	Tags           []Tag  `json:"tags,omitempty" validate:"max=50,dive"`
}

type RunTaskOutput struct {
	Tasks    []Task    `json:"tasks,omitempty"`
	Failures []Failure `json:"failures,omitempty"`
}

type StopTaskInput struct {
	client.RequestOptions
	Cluster string `json:"cluster,omitempty"`
	Task    string `json:"task" validate:"required"`
	Reason  string `json:"reason,omitempty" validate:"max=255"`
}

type StopTaskOutput struct {
	Task *Task `json:"task,omitempty"`
}
