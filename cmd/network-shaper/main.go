package main

import (
	"context"
	goflag "flag"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/klog/v2"

	"github.com/k8snetworkplumbingwg/network-shaper/pkg/utils"
)

const logFlushFreqFlagName = "log-flush-frequency"

var logFlushFreq = pflag.Duration(logFlushFreqFlagName, 5*time.Second, "Maximum number of seconds between log flushes")

// KlogWriter serves as a bridge between the standard log package and the glog package.
type KlogWriter struct{}

// Write implements the io.Writer interface.
func (writer KlogWriter) Write(data []byte) (n int, err error) {
	klog.InfoDepth(1, string(data))
	return len(data), nil
}

func initLogs(ctx context.Context) {
	log.SetOutput(KlogWriter{})
	log.SetFlags(0)
	go wait.Until(klog.Flush, *logFlushFreq, ctx.Done())
}

func newRootCommand(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "network-shaper",
		Short: "Shape traffic of network devices with netem",
		Long: `network-shaper programs netem qdiscs on an inbound and an outbound network device
(or a single device) and exposes them through an HTTP API.

Run "network-shaper serve" on the shaping host, then use the show, apply, reset
and devices commands to drive it.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogs(ctx)
		},
	}

	fs := goflag.NewFlagSet("klog", goflag.ExitOnError)
	klog.InitFlags(fs)
	cmd.PersistentFlags().AddGoFlagSet(fs)
	cmd.PersistentFlags().AddFlagSet(pflag.CommandLine)

	cmd.AddCommand(
		newServeCommand(ctx),
		newShowCommand(ctx),
		newApplyCommand(ctx),
		newResetCommand(ctx),
		newDevicesCommand(ctx),
	)
	return cmd
}

func main() {
	ctx := utils.SetupSignalHandler()

	if err := newRootCommand(ctx).Execute(); err != nil {
		klog.Flush()
		os.Exit(1)
	}
	klog.Flush()
}
