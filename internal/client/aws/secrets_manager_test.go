package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecrets struct {
	value *string
	err   error
	calls int
}

func (f *fakeSecrets) GetSecretValue(_ context.Context, _ *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: f.value}, nil
}

func strPtr(s string) *string { return &s }

func TestSecretsManagerClient_GetSecretString(t *testing.T) {
	tests := []struct {
		name      string
		arn       string
		fallback  string
		fake      *fakeSecrets
		want      string
		wantCalls int
		wantErr   bool
	}{
		{
			name:      "plain text secret",
			arn:       "arn:aws:secretsmanager:us-east-1:123:secret:sg",
			fake:      &fakeSecrets{value: strPtr("SG.plain")},
			want:      "SG.plain",
			wantCalls: 1,
		},
		{
			name:      "single key json secret",
			arn:       "arn:aws:secretsmanager:us-east-1:123:secret:sg",
			fake:      &fakeSecrets{value: strPtr(`{"SENDGRID_API_KEY":"SG.json"}`)},
			want:      "SG.json",
			wantCalls: 1,
		},
		{
			name:      "multi key json returned raw",
			arn:       "arn:aws:secretsmanager:us-east-1:123:secret:sg",
			fake:      &fakeSecrets{value: strPtr(`{"a":"1","b":"2"}`)},
			want:      `{"a":"1","b":"2"}`,
			wantCalls: 1,
		},
		{
			name:      "fetch failure falls back to env",
			arn:       "arn:aws:secretsmanager:us-east-1:123:secret:sg",
			fallback:  "SG.env",
			fake:      &fakeSecrets{err: errors.New("access denied")},
			want:      "SG.env",
			wantCalls: 1,
		},
		{
			name:     "no arn uses env",
			fallback: "SG.env",
			fake:     &fakeSecrets{},
			want:     "SG.env",
		},
		{
			name:    "nothing configured",
			fake:    &fakeSecrets{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_SECRET_ARN", tt.arn)
			t.Setenv("TEST_SECRET", tt.fallback)

			client := NewSecretsManagerClientWithAPI(tt.fake)
			got, err := client.GetSecretString(context.Background(), "TEST_SECRET_ARN", "TEST_SECRET")

			assert.Equal(t, tt.wantCalls, tt.fake.calls)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
