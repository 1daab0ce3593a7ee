package protocol

import (
	"context"

	"github.com/wostzone/wot-consume/pkg/security"
	"github.com/wostzone/wot-consume/pkg/td"
)

// CredentialsProvider supplies credentials for a resource's form href. It
// is the narrow slice of pkg/security.Provider's method set; a Client does
// not use it and receives already-resolved Credentials via SetCredentials.
type CredentialsProvider interface {
	Resolve(href string, schemes []td.SecurityScheme) (security.Credentials, error)
}

// ContentStream is a lazy, potentially infinite sequence of Content items
// delivered by a subscribeResource call. Next blocks until an item, error,
// or context cancellation. A non-nil error is terminal: no further calls to
// Next are made after one returns an error.
type ContentStream interface {
	Next(ctx context.Context) (Content, error)
	Close() error
}

// Client is the contract the Consumption Engine depends on to reach a
// concrete protocol binding. Every method may fail with a *ClientError,
// which the engine wraps as ConsumedThingError preserving the cause.
type Client interface {
	ReadResource(ctx context.Context, r Resource) (Content, error)
	WriteResource(ctx context.Context, r Resource, c Content) error
	InvokeResource(ctx context.Context, r Resource, c *Content) (Content, error)
	SubscribeResource(ctx context.Context, r Resource, rt ResourceType) (ContentStream, error)
	UnlinkResource(ctx context.Context, r Resource, rt ResourceType) error
	SetCredentials(creds security.Credentials) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// ClientFactory instantiates Clients for a single URI scheme.
type ClientFactory interface {
	Scheme() string
	CreateClient() (Client, error)
	Init() error
	Destroy() error
}
