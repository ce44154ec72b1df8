package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/shadowshield/internal/common"
)

// Upload encrypts a local file into the server vault.
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: upload <path>")
		return nil
	}

	name, err := a.vaultService.Upload(ctx, args[0])
	if err != nil {
		fmt.Fprintf(a.out, "Encryption failed: %v\n", err)
		return err
	}
	fmt.Fprintf(a.out, "Encrypted and saved as: %s\n", name)
	return nil
}

// List prints the vault contents.
func (a *App) List(ctx context.Context) error {
	files, err := a.vaultService.List(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Failed to fetch vault list: %v\n", err)
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(a.out, "Vault is empty")
		return nil
	}
	for _, f := range files {
		fmt.Fprintln(a.out, f)
	}
	return nil
}

// Download decrypts a vault entry into a local directory, the current one
// by default.
func (a *App) Download(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(a.out, "Usage: download <vault_name> [dest_dir]")
		return nil
	}
	dest := "."
	if len(args) == 2 {
		dest = args[1]
	}

	path, err := a.vaultService.Download(ctx, args[0], dest)
	switch {
	case err == nil:
		fmt.Fprintf(a.out, "Decrypted to: %s\n", path)
	case errors.Is(err, common.ErrorNotFound):
		fmt.Fprintln(a.out, "File not found")
	case errors.Is(err, common.ErrDecryptionFailed):
		fmt.Fprintln(a.out, "Decryption failed: the entry is damaged or was encrypted with another key")
	case errors.Is(err, common.ErrAlreadyExists):
		fmt.Fprintln(a.out, "A file with that name already exists in the destination")
	default:
		fmt.Fprintf(a.out, "Decryption error: %v\n", err)
	}
	return err
}
