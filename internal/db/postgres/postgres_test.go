package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnConfigTLSPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		config       Config
		wantTLS      bool
		wantInsecure bool
	}{
		{
			name:    "unspecified keeps sslmode from url",
			config:  Config{URL: "postgresql://u@db.internal:5432/app?sslmode=disable"},
			wantTLS: false,
		},
		{
			name:         "required without verification",
			config:       Config{URL: "postgresql://u@db.internal:5432/app?sslmode=disable", RequireTLS: true},
			wantTLS:      true,
			wantInsecure: true,
		},
		{
			name:         "required with verification",
			config:       Config{URL: "postgresql://u@db.internal:5432/app", RequireTLS: true, VerifyCertificates: true},
			wantTLS:      true,
			wantInsecure: false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p, err := New(tc.config)
			require.NoError(t, err)

			connConfig, err := p.ConnConfig()
			require.NoError(t, err)
			assert.Equal(t, "db.internal", connConfig.Host)
			assert.Equal(t, uint16(5432), connConfig.Port)

			if !tc.wantTLS {
				assert.Nil(t, connConfig.TLSConfig)
				return
			}
			require.NotNil(t, connConfig.TLSConfig)
			assert.Equal(t, tc.wantInsecure, connConfig.TLSConfig.InsecureSkipVerify)
			assert.Equal(t, "db.internal", connConfig.TLSConfig.ServerName)
			assert.Empty(t, connConfig.Fallbacks)
		})
	}
}

func TestConnConfigStatementLogging(t *testing.T) {
	t.Parallel()

	p, err := New(Config{URL: "postgresql://u@h:5432/app", LogStatements: true})
	require.NoError(t, err)
	connConfig, err := p.ConnConfig()
	require.NoError(t, err)
	assert.NotNil(t, connConfig.Tracer)

	p, err = New(Config{URL: "postgresql://u@h:5432/app"})
	require.NoError(t, err)
	connConfig, err = p.ConnConfig()
	require.NoError(t, err)
	assert.Nil(t, connConfig.Tracer)
}

func TestConnConfigRejectsMalformedURL(t *testing.T) {
	t.Parallel()

	p, err := New(Config{URL: "postgresql://u@h:notaport/app"})
	require.NoError(t, err)

	_, err = p.ConnConfig()
	assert.Error(t, err)

	err = p.Connect(context.Background())
	assert.Error(t, err)
}

func TestNewRequiresURL(t *testing.T) {
	t.Parallel()

	_, err := New(Config{})
	assert.Error(t, err)
}

func TestPingBeforeConnect(t *testing.T) {
	t.Parallel()

	p, err := New(Config{URL: "postgresql://u@h:5432/app"})
	require.NoError(t, err)
	assert.ErrorIs(t, p.Ping(context.Background()), ErrNotConnected)
	assert.NoError(t, p.Disconnect(context.Background()))
}

func TestOpenPoolReturnsSeparatePools(t *testing.T) {
	t.Parallel()

	p, err := New(Config{URL: "postgresql://u@127.0.0.1:1/app"})
	require.NoError(t, err)

	first, err := p.OpenPool()
	require.NoError(t, err)
	second, err := p.OpenPool()
	require.NoError(t, err)
	assert.NotSame(t, first, second)

	require.NoError(t, first.Close())
	require.NoError(t, second.Close())
	assert.Nil(t, p.DB(), "OpenPool must not connect the connector")
}
