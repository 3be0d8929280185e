package tc

import (
	"github.com/k8snetworkplumbingwg/network-shaper/pkg/tc/generator"
)

// Actuator brings the netem shaping of a device in line with generated Objects
type Actuator interface {
	// Actuate programs objects.QDisc at the root of the device, a nil QDisc removes the shaping
	Actuate(objects *generator.Objects) error
}
