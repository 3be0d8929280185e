package cmdline

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
	"k8s.io/utils/exec"

	"github.com/k8snetworkplumbingwg/network-shaper/pkg/tc/types"
)

// exit status of tc when the object to delete does not exist
const tcExitStatusNotFound = 2

// NewTcCmdLineImpl creates a new instance of TcCmdLineImpl
func NewTcCmdLineImpl(dev string, log klog.Logger, executor exec.Interface) *TcCmdLineImpl {
	return &TcCmdLineImpl{
		netDev:   dev,
		log:      log,
		executor: executor,
		cmdline:  "tc",
	}
}

// TcCmdLineImpl is a concrete implementation of TC interface utilizing TC command line
type TcCmdLineImpl struct {
	netDev   string
	log      klog.Logger
	executor exec.Interface

	cmdline string
}

// execTcCmd executes tc command with args, returning stdout output and error.
// stderr of tc is added to the returned error.
func (t *TcCmdLineImpl) execTcCmd(args []string) ([]byte, error) {
	t.log.V(10).Info("executing", "cmd", t.cmdline, "args", args)
	cmd := t.executor.Command(t.cmdline, args...)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetStdout(stdout)
	cmd.SetStderr(stderr)
	err := cmd.Run()
	t.log.V(10).Info("exec result", "err", err, "out", stdout.String())
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.Join(args, " ")
		}
		return nil, errors.Wrapf(err, "%s %s", t.cmdline, msg)
	}
	return stdout.Bytes(), nil
}

// QDiscReplace implements TC interface
func (t *TcCmdLineImpl) QDiscReplace(qdisc types.QDisc) error {
	args := []string{"qdisc", "replace", "dev", t.netDev}
	args = append(args, qdisc.GenCmdLineArgs()...)
	_, err := t.execTcCmd(args)
	return err
}

// QDiscDel implements TC interface. Deleting a qdisc which does not exist is not an error.
func (t *TcCmdLineImpl) QDiscDel(qdisc types.QDisc) error {
	args := []string{"qdisc", "del", "dev", t.netDev}
	args = append(args, qdisc.Attrs().GenCmdLineArgs()...)
	_, err := t.execTcCmd(args)

	var exitErr exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitStatus() == tcExitStatusNotFound {
		t.log.V(4).Info("no qdisc to delete", "dev", t.netDev)
		return nil
	}
	return err
}

// QDiscList implements TC interface
func (t *TcCmdLineImpl) QDiscList() ([]types.QDisc, error) {
	args := []string{"qdisc", "show", "dev", t.netDev}
	out, err := t.execTcCmd(args)
	if err != nil {
		return nil, err
	}
	// parse output and return objects
	cQdiscs := parseQDiscLines(string(out))

	objs := make([]types.QDisc, 0, len(cQdiscs))
	for _, q := range cQdiscs {
		attrsBuilder := types.NewQDiscAttrsBuilder()
		handle, err := parseMajorMinor(q.Handle)
		if err != nil {
			return nil, errors.Wrap(err, "Failed to parse qdisc Handle")
		}
		attrsBuilder.WithHandle(handle)
		if q.Root {
			attrsBuilder.WithParent(types.HandleRoot)
		} else {
			parent, err := parseMajorMinor(q.Parent)
			if err != nil {
				return nil, errors.Wrap(err, "Failed to parse qdisc Parent")
			}
			attrsBuilder.WithParent(parent)
		}

		if q.Kind != string(types.QDiscNetemType) {
			objs = append(objs, types.NewGenericQdisc(attrsBuilder.Build(), types.QDiscType(q.Kind)))
			continue
		}

		netemAttrs, err := parseNetemOptions(q.Options)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to parse netem options: %s", q.Options)
		}
		objs = append(objs, types.NewNetemQDisc(attrsBuilder.Build(), netemAttrs))
	}
	return objs, nil
}

// parseMajorMinor parses TC string Handle and Parent. for a given format the following output is expected as depicted
// below.
//
//	"abcd" -> int32(0xabcd)
//	"abcdef01" -> int32(0xabcdef01)
//	"abcd:" -> int32(0xabcd0000)
//	"abcd:ef01" -> int32(0xabcdef01)
//	":ef01" -> int32(0x0000ef01)
func parseMajorMinor(mm string) (uint32, error) {
	parsedMm := strings.Split(mm, ":")

	switch len(parsedMm) {
	case 1:
		p, err := strconv.ParseUint(parsedMm[0], 16, 32)
		return uint32(p), err
	case 2:
		var major, minor uint64
		var err error
		if len(parsedMm[0]) > 0 {
			major, err = strconv.ParseUint(parsedMm[0], 16, 16)
			if err != nil {
				return 0, err
			}
		}
		if len(parsedMm[1]) > 0 {
			// we have minor
			minor, err = strconv.ParseUint(parsedMm[1], 16, 16)
			if err != nil {
				return 0, err
			}
		}
		return (uint32(major) << 16) | uint32(minor), nil
	default:
		return 0, fmt.Errorf("failed to parse MajorMinor string: %s", mm)
	}
}
