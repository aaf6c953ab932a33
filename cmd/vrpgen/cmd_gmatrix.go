package main

import (
	"github.com/lintang-b-s/vrpdatasetgen/pkg/distancematrix"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var gmatrixCmd = &cobra.Command{
	Use:   "gmatrix <file.tsp> <distance output> <time output>",
	Short: "Fetch road distance and time matrices of a tsp file from the Google Maps api",
	Long: `One distance matrix request is sent per origin, paced by google.interval.
The api key is read from google.api_key or VRPGEN_GOOGLE_API_KEY.`,
	Args: cobra.ExactArgs(3),
	RunE: runGmatrix,
}

func runGmatrix(cmd *cobra.Command, args []string) error {
	client, err := distancematrix.NewMapsClient(viper.GetString("google.api_key"))
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	gen := distancematrix.NewGenerator(client, viper.GetDuration("google.interval"), log)
	return gen.Generate(ctx, args[0], args[1], args[2])
}
