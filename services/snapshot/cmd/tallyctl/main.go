package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	gos3 "tallyd/pkg/s3"
	"tallyd/services/api"
	"tallyd/services/snapshot"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tallyctl",
		Short:         "Utility for inventory report snapshots and import templates",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newTemplateCommand())
	cmd.AddCommand(newSnapshotsCommand())
	return cmd
}

func newTemplateCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the asset import template workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Create(output)
			if err != nil {
				return err
			}
			defer file.Close()

			if err := api.WriteTemplateWorkbook(file); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote template %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "asset_import_template.xlsx", "Destination workbook file")
	return cmd
}

func newSnapshotsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Snapshot build, verify, and push operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newSnapshotsBuildCommand())
	cmd.AddCommand(newSnapshotsVerifyCommand())
	cmd.AddCommand(newSnapshotsPushCommand())
	return cmd
}

func newSnapshotsBuildCommand() *cobra.Command {
	var (
		reportsDir string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Create a signed snapshot from a directory of exported reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			signer, err := snapshot.NewSignerFromEnv()
			if err != nil {
				return err
			}
			_, err = snapshot.Build(ctx, snapshot.BuildConfig{
				ReportsDir: reportsDir,
				Output:     output,
				Signer:     signer,
				Stdout:     os.Stdout,
			})
			return err
		},
	}

	cmd.Flags().StringVar(&reportsDir, "reports-dir", "", "Directory containing exported reports")
	cmd.Flags().StringVar(&output, "output", "", "Destination snapshot file (tar.zst)")
	_ = cmd.MarkFlagRequired("reports-dir")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newSnapshotsVerifyCommand() *cobra.Command {
	var snapshotFile string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a snapshot's signature and report hashes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			signer, err := snapshot.NewSignerFromEnv()
			if err != nil {
				return err
			}
			_, err = snapshot.Verify(ctx, snapshot.VerifyConfig{
				SnapshotPath: snapshotFile,
				Signer:       signer,
				Stdout:       os.Stdout,
			})
			return err
		},
	}

	cmd.Flags().StringVar(&snapshotFile, "file", "", "Path to the snapshot tar.zst")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newSnapshotsPushCommand() *cobra.Command {
	var (
		snapshotFile string
		bucket       string
		key          string
	)

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Verify a snapshot and upload it to object storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			signer, err := snapshot.NewSignerFromEnv()
			if err != nil {
				return err
			}
			s3Client, err := gos3.NewClientFromEnv()
			if err != nil {
				return fmt.Errorf("s3 client: %w", err)
			}
			if bucket == "" {
				bucket = os.Getenv("S3_BUCKET")
			}
			return snapshot.Push(ctx, snapshot.PushConfig{
				SnapshotPath: snapshotFile,
				S3:           s3Client,
				Bucket:       bucket,
				Key:          key,
				Signer:       signer,
				Stdout:       os.Stdout,
			})
		},
	}

	cmd.Flags().StringVar(&snapshotFile, "file", "", "Path to the snapshot tar.zst")
	cmd.Flags().StringVar(&bucket, "bucket", "", "Destination bucket (defaults to S3_BUCKET)")
	cmd.Flags().StringVar(&key, "key", "", "Destination object key (defaults to snapshots/<filename>)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
