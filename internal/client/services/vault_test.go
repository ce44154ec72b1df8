package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/shadowshield/internal/common"
)

func TestVaultService_Upload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0o600))

	fc := &fakeClient{UploadName: "report.pdf.enc"}
	s := NewVaultService(fc)

	name, err := s.Upload(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "report.pdf.enc", name)
	assert.Equal(t, "report.pdf", fc.LastUploadName)
	assert.Equal(t, []byte("%PDF"), fc.LastUploadData)
}

func TestVaultService_UploadErrors(t *testing.T) {
	s := NewVaultService(&fakeClient{})

	_, err := s.Upload(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = s.Upload(context.Background(), t.TempDir())
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	_, err = NewVaultService(&fakeClient{UploadErr: common.ErrAlreadyExists}).Upload(context.Background(), path)
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestVaultService_List(t *testing.T) {
	s := NewVaultService(&fakeClient{ListRet: []string{"a.enc"}})

	got, err := s.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"a.enc"}, got)
}

func TestVaultService_Download(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out")
	s := NewVaultService(&fakeClient{DownloadData: []byte("plain"), DownloadName: "notes.txt"})

	path, err := s.Download(context.Background(), "notes.txt.enc", dest)

	require.NoError(t, err)
	assert.Equal(t, "notes.txt", filepath.Base(path))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "plain", string(got))
}

func TestVaultService_DownloadKeepsExistingFile(t *testing.T) {
	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dest, "notes.txt"), []byte("mine"), 0o600))
	s := NewVaultService(&fakeClient{DownloadData: []byte("plain"), DownloadName: "notes.txt"})

	_, err := s.Download(context.Background(), "notes.txt.enc", dest)

	assert.ErrorIs(t, err, common.ErrAlreadyExists)
	got, _ := os.ReadFile(filepath.Join(dest, "notes.txt"))
	assert.Equal(t, "mine", string(got))
}

func TestVaultService_DownloadStripsDirectories(t *testing.T) {
	dest := t.TempDir()
	s := NewVaultService(&fakeClient{DownloadData: []byte("x"), DownloadName: "../../etc/passwd"})

	path, err := s.Download(context.Background(), "passwd.enc", dest)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "passwd"), path)
}

func TestVaultService_DownloadErrors(t *testing.T) {
	_, err := NewVaultService(&fakeClient{DownloadErr: common.ErrorNotFound}).Download(context.Background(), "x.enc", t.TempDir())
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = NewVaultService(&fakeClient{DownloadName: ".."}).Download(context.Background(), "x.enc", t.TempDir())
	assert.ErrorIs(t, err, common.ErrInvalidName)
}
