package cmd

import (
	"fmt"
	"runtime"
	"text/tabwriter"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/killallgit/media-gateway/api/types"
	"github.com/killallgit/media-gateway/api/version"
)

// Set at build time with -ldflags "-X github.com/killallgit/media-gateway/cmd.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the gateway build: version, git commit, build time and the Go
runtime it was compiled with. --json prints the same document GET /version
serves, without the model.`,
		RunE: runVersion,
	}
	cmd.Flags().BoolP("short", "s", false, "print just the version number")
	cmd.Flags().Bool("json", false, "print build info as JSON")
	return cmd
}

func buildInfo() types.BuildInfo {
	return types.BuildInfo{Version: Version, GitCommit: GitCommit, BuildTime: BuildTime}
}

func runVersion(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	short, _ := cmd.Flags().GetBool("short")
	asJSON, _ := cmd.Flags().GetBool("json")

	switch {
	case short:
		fmt.Fprintf(out, "v%s\n", Version)
		return nil
	case asJSON:
		data, err := sonic.ConfigStd.MarshalIndent(types.VersionResponse{Name: version.Name, BuildInfo: buildInfo()}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintln(out, version.Name)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Version:\tv%s\n", Version)
	fmt.Fprintf(w, "Git Commit:\t%s\n", GitCommit)
	fmt.Fprintf(w, "Build Time:\t%s\n", BuildTime)
	fmt.Fprintf(w, "Go:\t%s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return w.Flush()
}
