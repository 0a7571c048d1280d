package pgstore

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/roach88/swiss/internal/model"
)

func TestClassify_ConnectionErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"bad conn", driver.ErrBadConn},
		{"wrapped bad conn", fmt.Errorf("lock standings: %w", driver.ErrBadConn)},
		{"unexpected eof", fmt.Errorf("query matches: %w", io.ErrUnexpectedEOF)},
		{"net op error", &net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset by peer")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			assert.True(t, errors.Is(got, model.ErrUnavailable), "got %v", got)
			assert.True(t, errors.Is(got, tt.err), "cause lost: %v", got)
		})
	}
}

func TestClassify_ConnectError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Nothing listens on port 1, so the dial fails without a server.
	_, err := pgconn.Connect(ctx, "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1")
	require.Error(t, err)

	var connectErr *pgconn.ConnectError
	require.True(t, errors.As(err, &connectErr), "got %T: %v", err, err)

	got := classify(fmt.Errorf("record match: %w", err))
	assert.True(t, errors.Is(got, model.ErrUnavailable), "got %v", got)
}

func TestClassify_LeavesOtherErrorsAlone(t *testing.T) {
	assert.NoError(t, classify(nil))

	unknown := fmt.Errorf("read player 9: %w", model.ErrUnknownPlayer)
	got := classify(unknown)
	assert.Same(t, unknown, got)
	assert.False(t, errors.Is(got, model.ErrUnavailable))

	notFound := classify(gorm.ErrRecordNotFound)
	assert.False(t, errors.Is(notFound, model.ErrUnavailable))

	already := fmt.Errorf("ping: %w", model.ErrUnavailable)
	assert.Same(t, already, classify(already))
}
