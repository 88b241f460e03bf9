package main

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/arbor-ui/arbor/internal/config"
	"github.com/arbor-ui/arbor/pkg/publish"
)

func exportCmd() *cobra.Command {
	var (
		out    string
		upload bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export pages to static HTML",
		Long: `Render every registered page to a static HTML file.

With --upload, the exported site is also published to the S3 bucket
configured under "publish" in arbor.json.

Examples:
  arbor export
  arbor export --out=public
  arbor export --upload`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), out, upload)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output directory (default from arbor.json)")
	cmd.Flags().BoolVar(&upload, "upload", false, "Publish the export to S3")

	return cmd
}

func runExport(ctx context.Context, out string, upload bool) error {
	cfg, err := config.Load(".")
	if err != nil {
		return err
	}
	if out == "" {
		out = cfg.Export.Output
	}

	srv := buildServer(cfg, false)

	n, err := publish.Export(srv, out)
	if err != nil {
		return err
	}
	success("exported %d page(s) to %s", n, out)

	if !upload {
		return nil
	}
	if cfg.Publish.Bucket == "" {
		return fmt.Errorf("publish.bucket is not set in arbor.json")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Publish.Region))
	if err != nil {
		return fmt.Errorf("load AWS config: %w", err)
	}

	p := publish.NewPublisher(s3.NewFromConfig(awsCfg), cfg.Publish.Bucket, cfg.Publish.Prefix)
	uploaded, err := p.PublishDir(ctx, out)
	if err != nil {
		return err
	}
	success("published %d object(s) to s3://%s/%s", uploaded, cfg.Publish.Bucket, cfg.Publish.Prefix)
	return nil
}
