/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	profiler interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reservoir",
	Short: "Steady state pressure in a two dimensional reservoir",
	Long: `
Solves for the steady state pressure field of a square reservoir with point wells
and no-flow outer boundaries, using a five band linear system and a choice of
direct (Gaussian elimination) or iterative (Jacobi, Gauss-Seidel, SOR) solvers.

reservoir solve -n 20 -m sor -w 1.5`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		profiler, err = startProfile(viper.GetString("profile"), viper.GetString("profileDir"))
		return
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// run stops the profile whether or not the command succeeded
func run() (err error) {
	defer stopProfile()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.reservoir.yaml)")
	rootCmd.PersistentFlags().String("profile", "", "write a cpu or mem profile")
	rootCmd.PersistentFlags().String("profileDir", ".", "directory for the profile")
	for _, name := range []string{"profile", "profileDir"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		// Search config in home directory with name ".reservoir" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".reservoir")
	}
	viper.SetEnvPrefix("reservoir")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func startProfile(kind, dir string) (p interface{ Stop() }, err error) {
	switch strings.ToLower(kind) {
	case "":
	case "cpu":
		p = profile.Start(profile.CPUProfile, profile.ProfilePath(dir), profile.NoShutdownHook)
	case "mem":
		p = profile.Start(profile.MemProfile, profile.ProfilePath(dir), profile.NoShutdownHook)
	default:
		err = fmt.Errorf("unknown profile %q, want cpu or mem", kind)
	}
	return
}

func stopProfile() {
	if profiler != nil {
		profiler.Stop()
		profiler = nil
	}
}
