package server

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/mcp-assisted-service/internal/assisted"
	"github.com/giantswarm/mcp-assisted-service/internal/mcp/oauth"
)

type fakeResolver struct {
	token string
	err   error
	calls int
}

func (f *fakeResolver) AccessToken(_ context.Context) (string, error) {
	f.calls++
	return f.token, f.err
}

type fakeFactory struct {
	tokens []string
	err    error
}

func (f *fakeFactory) NewClient(accessToken string) (assisted.Inventory, error) {
	f.tokens = append(f.tokens, accessToken)
	if f.err != nil {
		return nil, f.err
	}
	factory, err := assisted.NewFactory(assisted.Config{})
	if err != nil {
		return nil, err
	}
	return factory.NewClient(accessToken)
}

func newTestServerContext(t *testing.T, opts ...Option) *ServerContext {
	t.Helper()
	base := []Option{
		WithClientFactory(&fakeFactory{}),
		WithTokenResolver(&fakeResolver{token: "T"}),
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
	}
	sc, err := NewServerContext(context.Background(), append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestNewServerContext(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{
			name: "all dependencies provided",
			opts: []Option{
				WithClientFactory(&fakeFactory{}),
				WithTokenResolver(&fakeResolver{}),
			},
		},
		{
			name:    "missing client factory",
			opts:    []Option{WithTokenResolver(&fakeResolver{})},
			wantErr: ErrMissingClientFactory,
		},
		{
			name:    "missing token resolver",
			opts:    []Option{WithClientFactory(&fakeFactory{})},
			wantErr: ErrMissingTokenResolver,
		},
		{
			name: "nil logger rejected",
			opts: []Option{
				WithClientFactory(&fakeFactory{}),
				WithTokenResolver(&fakeResolver{}),
				WithLogger(nil),
			},
			wantErr: ErrMissingLogger,
		},
		{
			name: "nil config rejected",
			opts: []Option{
				WithClientFactory(&fakeFactory{}),
				WithTokenResolver(&fakeResolver{}),
				WithConfig(nil),
			},
			wantErr: ErrMissingConfig,
		},
		{
			name: "nil factory rejected",
			opts: []Option{
				WithClientFactory(nil),
				WithTokenResolver(&fakeResolver{}),
			},
			wantErr: ErrMissingClientFactory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := NewServerContext(context.Background(), tt.opts...)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, sc)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, sc)
			assert.NotNil(t, sc.Logger())
			assert.NotNil(t, sc.LeveledLogger())
			assert.Equal(t, "mcp-assisted-service", sc.Config().ServerName)
			assert.False(t, sc.ReadOnly())
			_ = sc.Shutdown()
		})
	}
}

func TestServerContext_Options(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.InventoryURL = "https://assisted.example.com"

	sc := newTestServerContext(t,
		WithConfig(cfg),
		WithServerName("custom"),
		WithReadOnly(true),
		WithLogLevel("debug"),
	)

	assert.Equal(t, "custom", sc.Config().ServerName)
	assert.Equal(t, "https://assisted.example.com", sc.Config().InventoryURL)
	assert.True(t, sc.ReadOnly())
	assert.Equal(t, "debug", sc.Config().LogLevel)

	// WithConfig stores a copy.
	cfg.ServerName = "mutated"
	assert.Equal(t, "custom", sc.Config().ServerName)
}

func TestServerContext_InventoryForContext(t *testing.T) {
	factory := &fakeFactory{}
	resolver := &fakeResolver{token: "access-token"}
	sc := newTestServerContext(t, WithClientFactory(factory), WithTokenResolver(resolver))

	first, err := sc.InventoryForContext(context.Background())
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := sc.InventoryForContext(context.Background())
	require.NoError(t, err)

	assert.NotSame(t, first, second, "every call builds a new client")
	assert.Equal(t, []string{"access-token", "access-token"}, factory.tokens)
	assert.Equal(t, 2, resolver.calls)
}

func TestServerContext_InventoryForContext_ResolverError(t *testing.T) {
	factory := &fakeFactory{}
	sc := newTestServerContext(t,
		WithClientFactory(factory),
		WithTokenResolver(&fakeResolver{err: oauth.ErrNoOfflineToken}),
	)

	_, err := sc.InventoryForContext(context.Background())
	require.Error(t, err)
	assert.Equal(t, oauth.ErrNoOfflineToken, err, "resolver errors are returned unchanged")
	assert.Empty(t, factory.tokens)
}

func TestServerContext_InventoryForContext_FactoryError(t *testing.T) {
	sc := newTestServerContext(t, WithClientFactory(&fakeFactory{err: assisted.ErrMissingToken}))

	_, err := sc.InventoryForContext(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, assisted.ErrMissingToken))
	assert.Contains(t, err.Error(), "failed to create assisted service client")
}

func TestServerContext_Shutdown(t *testing.T) {
	sc := newTestServerContext(t)

	assert.False(t, sc.IsShutdown())
	require.NoError(t, sc.Shutdown())
	assert.True(t, sc.IsShutdown())
	assert.Error(t, sc.Context().Err())

	// Second shutdown is a no-op.
	require.NoError(t, sc.Shutdown())
	assert.True(t, sc.IsShutdown())
}

func TestServerContext_MetricsWithoutProvider(t *testing.T) {
	sc := newTestServerContext(t)

	assert.Nil(t, sc.InstrumentationProvider())
	assert.NotPanics(t, func() {
		sc.Metrics().RecordToolInvocation(context.Background(), "list_clusters", "success", 0)
	})
}

func TestConfig_Clone(t *testing.T) {
	var nilConfig *Config
	assert.Nil(t, nilConfig.Clone())

	cfg := NewDefaultConfig()
	clone := cfg.Clone()
	require.NotNil(t, clone)
	assert.Equal(t, cfg, clone)

	clone.ReadOnly = true
	assert.False(t, cfg.ReadOnly)
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, assisted.DefaultInventoryURL, cfg.InventoryURL)
	assert.Equal(t, assisted.DefaultPullSecretURL, cfg.PullSecretURL)
	assert.Equal(t, oauth.DefaultSSOURL, cfg.SSOURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.ReadOnly)
}
