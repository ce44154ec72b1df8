package services

import (
	"context"
	"io"

	"github.com/dmitrijs2005/shadowshield/internal/client/models"
)

// fakeClient implements client.Client for unit tests.
type fakeClient struct {
	PingErr error

	LoginResp models.LoginResponse
	LoginErr  error
	LastLogin models.LoginRequest

	UploadName     string
	UploadErr      error
	LastUploadName string
	LastUploadData []byte

	ListRet []string
	ListErr error

	DownloadData []byte
	DownloadName string
	DownloadErr  error
}

func (f *fakeClient) Ping(context.Context) error { return f.PingErr }

func (f *fakeClient) Login(_ context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	f.LastLogin = req
	return f.LoginResp, f.LoginErr
}

func (f *fakeClient) Upload(_ context.Context, filename string, r io.Reader) (string, error) {
	f.LastUploadName = filename
	f.LastUploadData, _ = io.ReadAll(r)
	return f.UploadName, f.UploadErr
}

func (f *fakeClient) List(context.Context) ([]string, error) { return f.ListRet, f.ListErr }

func (f *fakeClient) Download(context.Context, string) ([]byte, string, error) {
	return f.DownloadData, f.DownloadName, f.DownloadErr
}
