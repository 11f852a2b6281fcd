package grpc

import (
	"context"
	"fmt"
	"log"
	"time"

	"internship-bot/models"

	grpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Full method names of the form service. Requests and replies are
// google.protobuf.Struct so no generated stubs are needed on either side.
const (
	CreateFormMethod = "/forms.FormService/CreateForm"
	CloseFormsMethod = "/forms.FormService/CloseForms"
)

// FormClient talks to the external form service over gRPC.
type FormClient struct {
	conn          *grpc.ClientConn
	serverAddress string
	timeout       time.Duration
}

// NewFormClient creates a client for the form service at serverAddress.
// Without dial options the connection is plaintext.
func NewFormClient(serverAddress string, timeout time.Duration, opts ...grpc.DialOption) (*FormClient, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}

	conn, err := grpc.NewClient(serverAddress, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create form service client for %s: %w", serverAddress, err)
	}

	return &FormClient{
		conn:          conn,
		serverAddress: serverAddress,
		timeout:       timeout,
	}, nil
}

// Close closes the gRPC connection.
func (c *FormClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// GetServerAddress returns the form service address.
func (c *FormClient) GetServerAddress() string {
	return c.serverAddress
}

func (c *FormClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// CreateForm asks the service for a new form titled title that notifies email.
// A reply missing the form id or the edit token yields ErrFormCreationFailed.
func (c *FormClient) CreateForm(ctx context.Context, title, email string) (models.Form, error) {
	req, err := structpb.NewStruct(map[string]any{
		"title":         title,
		"contact_email": email,
	})
	if err != nil {
		return models.Form{}, fmt.Errorf("failed to build create form request: %w", err)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, CreateFormMethod, req, resp); err != nil {
		return models.Form{}, fmt.Errorf("create form %q: %w: %w", title, models.ErrServiceUnavailable, err)
	}

	fields := resp.GetFields()
	form := models.Form{
		ID:        fields["form_id"].GetStringValue(),
		EditToken: fields["edit_token"].GetStringValue(),
	}
	if form.ID == "" || form.EditToken == "" {
		return models.Form{}, fmt.Errorf("create form %q: %w", title, models.ErrFormCreationFailed)
	}

	log.Printf("Created form %s for %q via %s", form.ID, title, c.serverAddress)
	return form, nil
}

// CloseForms stops the given forms from accepting responses in a single call.
func (c *FormClient) CloseForms(ctx context.Context, formIDs []string) error {
	if len(formIDs) == 0 {
		return nil
	}

	ids := make([]any, len(formIDs))
	for i, id := range formIDs {
		ids[i] = id
	}
	req, err := structpb.NewStruct(map[string]any{"form_ids": ids})
	if err != nil {
		return fmt.Errorf("failed to build close forms request: %w", err)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.conn.Invoke(ctx, CloseFormsMethod, req, &emptypb.Empty{}); err != nil {
		return fmt.Errorf("close %d forms: %w: %w", len(formIDs), models.ErrServiceUnavailable, err)
	}

	log.Printf("Closed %d forms via %s", len(formIDs), c.serverAddress)
	return nil
}
