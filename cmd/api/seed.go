package api

import (
	// 外部依赖
	"os"

	cobra "github.com/spf13/cobra"

	// 内部引用
	catalogImpl "github.com/naturlab/genlab/service/pkg/core/catalog/catalog"
	auth "github.com/naturlab/genlab/service/pkg/middleware/auth"
	db "github.com/naturlab/genlab/service/pkg/middleware/db"
	logger "github.com/naturlab/genlab/service/pkg/middleware/logger"
	model "github.com/naturlab/genlab/service/pkg/model"
)

// NewSeed loads the reference dictionaries from TSV exports.
func NewSeed() *cobra.Command {
	var speciesPath, sampleTypesPath string

	cmd := &cobra.Command{
		Use:          "seed",
		Long:         `load species and sample type dictionaries from TSV files`,
		SilenceUsage: true,
		PreRunE:      initDatabase,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := auth.WithUser(cmd.Root().Context(), &model.UserData{
				ID:      "seed",
				Name:    "seed",
				IsStaff: true,
			})
			svc := catalogImpl.New()

			if speciesPath != "" {
				f, err := os.Open(speciesPath)
				if err != nil {
					return err
				}
				resp, err := svc.ImportSpeciesTSV(ctx, f)
				f.Close()
				if err != nil {
					return err
				}
				logger.Infof(ctx, "imported %d species rows from %s", resp.Rows, speciesPath)
			}

			if sampleTypesPath != "" {
				f, err := os.Open(sampleTypesPath)
				if err != nil {
					return err
				}
				resp, err := svc.ImportSampleTypesTSV(ctx, f)
				f.Close()
				if err != nil {
					return err
				}
				logger.Infof(ctx, "imported %d sample type rows from %s", resp.Rows, sampleTypesPath)
			}

			return nil
		},
		PostRunE: func(cmd *cobra.Command, _ []string) error {
			db.ClosePostgres(cmd.Context())
			return nil
		},
	}

	cmd.Flags().StringVar(&speciesPath, "species", "", "species dictionary TSV")
	cmd.Flags().StringVar(&sampleTypesPath, "sample-types", "", "sample type dictionary TSV")
	return cmd
}
