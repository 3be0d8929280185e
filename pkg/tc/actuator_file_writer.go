package tc

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/k8snetworkplumbingwg/network-shaper/pkg/tc/generator"
	"github.com/k8snetworkplumbingwg/network-shaper/pkg/utils"
)

const rulesFilePerm = 0o644

// NewActuatorFileWriterImpl returns a new ActuatorFileWriterImpl instance writing the rules of device to path
func NewActuatorFileWriterImpl(device, path string, log klog.Logger) *ActuatorFileWriterImpl {
	return &ActuatorFileWriterImpl{
		log:    log,
		device: device,
		path:   path,
	}
}

// ActuatorFileWriterImpl implements Actuator interface and is used to save the shaping of a device to file
type ActuatorFileWriterImpl struct {
	log    klog.Logger
	device string
	path   string
}

// Actuate implements Actuator interface.
// The file holds the tc command reproducing the shaping of the device, so it can be replayed by hand.
func (a *ActuatorFileWriterImpl) Actuate(objects *generator.Objects) error {
	if a.path == "" {
		return errors.New("rules file path is not set")
	}

	rules := a.render(objects)
	current, err := a.current()
	if err != nil {
		a.log.Info("failed to read current rules, overwriting", "path", a.path, "error", err)
	}
	if bytes.Equal(current, rules) {
		a.log.V(4).Info("current and new rules are the same - no action needed.", "path", a.path)
		return nil
	}

	a.log.Info("saving new rules", "device", a.device, "path", a.path)
	if err = utils.WriteFileAtomic(a.path, rules, rulesFilePerm); err != nil {
		return errors.Wrapf(err, "failed to save rules of %s", a.device)
	}
	return nil
}

func (a *ActuatorFileWriterImpl) current() ([]byte, error) {
	exist, err := utils.PathExists(a.path)
	if err != nil || !exist {
		return nil, err
	}
	return os.ReadFile(a.path)
}

func (a *ActuatorFileWriterImpl) render(objects *generator.Objects) []byte {
	buf := bytes.Buffer{}
	fmt.Fprintf(&buf, "# netem shaping of %s\n", a.device)
	if objects.QDisc == nil {
		fmt.Fprintf(&buf, "tc qdisc del dev %s root\n", a.device)
	} else {
		fmt.Fprintf(&buf, "tc qdisc replace dev %s %s\n", a.device, strings.Join(objects.QDisc.GenCmdLineArgs(), " "))
	}
	return buf.Bytes()
}
