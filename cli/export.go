package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"estate_browser/storage"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export <file|s3://bucket/key>",
		Short: "Write the saved set, joined with listing details, to a JSON file",
		Long: `Local files are replaced atomically, so readers never see a partial export.
An s3:// target is uploaded with the S3_* settings (S3_ENDPOINT for MinIO or R2).`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	target := args[0]

	bucket, key, remote, err := storage.ParseBucketURL(target)
	if err != nil {
		return err
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	listings, err := a.browse.SavedListings(ctx)
	if err != nil {
		return err
	}

	b, err := json.MarshalIndent(listings, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	if remote {
		up, err := storage.NewBucketUploader(ctx, storage.BucketConfig{
			Region:          a.cfg.Export.Region,
			Endpoint:        a.cfg.Export.Endpoint,
			AccessKeyID:     a.cfg.Export.AccessKeyID,
			SecretAccessKey: a.cfg.Export.SecretAccessKey,
		})
		if err != nil {
			return err
		}
		if err := up.Upload(ctx, bucket, key, b, "application/json"); err != nil {
			return err
		}
		log.Printf("[Export] Uploaded %d saved listings to %s", len(listings), target)
	} else if err := atomic.WriteFile(target, bytes.NewReader(b)); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}

	if formatFlag == "json" {
		fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"file":%q,"count":%d}`+"\n", target, len(listings))
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported %d saved listings to %s\n", len(listings), target)
	return nil
}
