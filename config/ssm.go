package config

import (
	"context"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// parameterLister is the part of the SSM client we use.
type parameterLister interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

func loadSSM(ctx context.Context, parameterPath string) error {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return err
	}
	return exportParameters(ctx, ssm.NewFromConfig(awsCfg), parameterPath)
}

// exportParameters sets one environment variable per parameter under
// parameterPath, named after the last path segment. Existing variables are
// not overwritten.
func exportParameters(ctx context.Context, client parameterLister, parameterPath string) error {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(parameterPath),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	exported := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return err
		}
		for _, p := range page.Parameters {
			key := path.Base(aws.ToString(p.Name))
			if _, set := os.LookupEnv(key); set {
				continue
			}
			if err := os.Setenv(key, aws.ToString(p.Value)); err != nil {
				return err
			}
			exported++
		}
	}

	log.Info().Str("path", parameterPath).Int("count", exported).Msg("Exported SSM parameters")
	return nil
}
