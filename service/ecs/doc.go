// Package ecs is the client for the container orchestration API. It speaks
// the JSON 1.1 protocol with target prefix AmazonEC2ContainerServiceV20141113.
package ecs
