package sendgrid

import (
	"context"
	"errors"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cyphera/order-mailer/internal/client/email"
)

type fakeClient struct {
	calls    int
	received *mail.SGMailV3
	resp     *rest.Response
	err      error
}

func (f *fakeClient) SendWithContext(_ context.Context, m *mail.SGMailV3) (*rest.Response, error) {
	f.calls++
	f.received = m
	return f.resp, f.err
}

func testMessage() *email.Message {
	return &email.Message{
		To:         "jane@example.com",
		From:       email.Address{Email: "orders@shop.example", Name: "Acme Shop"},
		Subject:    "Order Confirmation #1007 - Jane Doe",
		HTML:       "<p>hi</p>",
		ReplyTo:    "orders@shop.example",
		Categories: []string{"order-confirmation"},
		Headers:    map[string]string{"X-Order-Number": "1007"},
		Attachments: []email.Attachment{
			{Content: "aGVsbG8=", Type: "image/png", Filename: "a.png", Disposition: "inline", ContentID: "image1"},
		},
	}
}

func TestSender_Send(t *testing.T) {
	tests := []struct {
		name       string
		resp       *rest.Response
		err        error
		wantStatus int
		wantErrors []string
		wantErr    bool
	}{
		{
			name: "accepted",
			resp: &rest.Response{StatusCode: 202},
		},
		{
			name: "rejected with structured errors",
			resp: &rest.Response{
				StatusCode: 422,
				Body:       `{"errors":[{"message":"bad from","field":"from.email","help":null}]}`,
			},
			wantStatus: 422,
			wantErrors: []string{`{"message":"bad from","field":"from.email","help":null}`},
			wantErr:    true,
		},
		{
			name:       "rejected with unstructured body",
			resp:       &rest.Response{StatusCode: 500, Body: "upstream exploded"},
			wantStatus: 500,
			wantErrors: []string{`{"message":"upstream exploded"}`},
			wantErr:    true,
		},
		{
			name:    "transport failure",
			err:     errors.New("dial tcp: timeout"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{resp: tt.resp, err: tt.err}
			sender := NewWithClient(client, zap.NewNop())

			err := sender.Send(context.Background(), testMessage())
			assert.Equal(t, 1, client.calls)

			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)

			var perr *email.ProviderError
			if tt.wantStatus == 0 {
				assert.False(t, errors.As(err, &perr))
				return
			}
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.wantStatus, perr.StatusCode)
			require.Len(t, perr.Errors, len(tt.wantErrors))
			for i, want := range tt.wantErrors {
				assert.JSONEq(t, want, string(perr.Errors[i]))
			}
		})
	}
}

func TestBuildMail(t *testing.T) {
	m := buildMail(testMessage())

	require.NotNil(t, m.From)
	assert.Equal(t, "orders@shop.example", m.From.Address)
	assert.Equal(t, "Acme Shop", m.From.Name)
	assert.Equal(t, "Order Confirmation #1007 - Jane Doe", m.Subject)
	require.Len(t, m.Personalizations, 1)
	require.Len(t, m.Personalizations[0].To, 1)
	assert.Equal(t, "jane@example.com", m.Personalizations[0].To[0].Address)
	require.Len(t, m.Content, 1)
	assert.Equal(t, "text/html", m.Content[0].Type)
	require.NotNil(t, m.ReplyTo)
	assert.Equal(t, "orders@shop.example", m.ReplyTo.Address)
	assert.Equal(t, []string{"order-confirmation"}, m.Categories)
	assert.Equal(t, "1007", m.Headers["X-Order-Number"])

	require.Len(t, m.Attachments, 1)
	att := m.Attachments[0]
	assert.Equal(t, "aGVsbG8=", att.Content)
	assert.Equal(t, "image/png", att.Type)
	assert.Equal(t, "a.png", att.Filename)
	assert.Equal(t, "inline", att.Disposition)
	assert.Equal(t, "image1", att.ContentID)
}
