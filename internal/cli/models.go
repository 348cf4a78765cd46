package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"promptctl/internal/inference"
	"promptctl/internal/registry"
	"promptctl/pkg/types"
)

func newModelsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List GGUF models the local backend can resolve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, o)
			if err != nil {
				return err
			}
			models, err := registry.LoadDir(cfg.ModelsDir)
			if err != nil {
				return err
			}
			if models == nil {
				models = []types.Model{}
			}
			b, err := json.Marshal(models)
			if err != nil {
				return err
			}
			return inference.WritePretty(cmd.OutOrStdout(), b)
		},
	}
}
