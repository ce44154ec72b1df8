package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/shadowshield/internal/client/models"
)

type Client interface {
	Ping(ctx context.Context) error
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error)
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
	List(ctx context.Context) ([]string, error)
	Download(ctx context.Context, vaultName string) ([]byte, string, error)
}
