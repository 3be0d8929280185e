package types

const (
	QDiscNetemType QDiscType = "netem"

	// HandleRoot is the parent of a qdisc attached at the root of a device
	HandleRoot uint32 = 0xffffffff
)

// QDiscType is the type of qdisc
type QDiscType string

// QDiscAttrs holds QDisc object attributes
type QDiscAttrs struct {
	Parent *uint32
	Handle *uint32
}

// NewQDiscAttrs creates new QDiscAttrs instance
func NewQDiscAttrs(parent, handle *uint32) *QDiscAttrs {
	return &QDiscAttrs{
		Parent: parent,
		Handle: handle,
	}
}

// IsRoot returns true if the qdisc is attached at the root of the device. a nil Parent means root.
func (qa *QDiscAttrs) IsRoot() bool {
	return qa.Parent == nil || *qa.Parent == HandleRoot
}

// parentOf returns the parent handle of qa, HandleRoot if unset
func (qa *QDiscAttrs) parentOf() uint32 {
	if qa.Parent == nil {
		return HandleRoot
	}
	return *qa.Parent
}

// sameParent returns true if both qdiscs are attached at the same parent
func sameParent(first, second *QDiscAttrs) bool {
	return first.parentOf() == second.parentOf()
}

// GenCmdLineArgs implements CmdLineGenerator interface
func (qa *QDiscAttrs) GenCmdLineArgs() []string {
	var args []string
	if qa.IsRoot() {
		args = append(args, "root")
	} else {
		args = append(args, "parent", fmtMajorMinor(*qa.Parent))
	}
	if qa.Handle != nil && *qa.Handle != 0 {
		args = append(args, "handle", fmtMajorMinor(*qa.Handle))
	}
	return args
}

// QDisc is an interface which represents a TC qdisc object
type QDisc interface {
	// Attrs returns QDiscAttrs for a qdisc
	Attrs() *QDiscAttrs
	// Type returns the QDisc type
	Type() QDiscType
	// Equals compares this QDisc with other, returns true if they are equal or false otherwise
	Equals(other QDisc) bool

	// Driver Specific related Interfaces
	CmdLineGenerator
}

// GenericQDisc is a generic qdisc of an arbitrary type
type GenericQDisc struct {
	QDiscAttrs
	QdiscType QDiscType
}

// Attrs implements QDisc interface
func (g *GenericQDisc) Attrs() *QDiscAttrs {
	return &g.QDiscAttrs
}

// Type implements QDisc interface
func (g *GenericQDisc) Type() QDiscType {
	return g.QdiscType
}

// Equals implements QDisc interface
func (g *GenericQDisc) Equals(other QDisc) bool {
	otherGeneric, ok := other.(*GenericQDisc)
	if !ok {
		return false
	}
	if g.QdiscType != otherGeneric.QdiscType {
		return false
	}
	return sameParent(&g.QDiscAttrs, &otherGeneric.QDiscAttrs)
}

// GenCmdLineArgs implements CmdLineGenerator interface
func (g *GenericQDisc) GenCmdLineArgs() []string {
	return append(g.QDiscAttrs.GenCmdLineArgs(), string(g.QdiscType))
}

// NewGenericQdisc creates a new Generic QDisc object
func NewGenericQdisc(qDiscAttrs *QDiscAttrs, qType QDiscType) *GenericQDisc {
	return &GenericQDisc{
		QDiscAttrs: *qDiscAttrs,
		QdiscType:  qType,
	}
}

// Builders

// NewQDiscAttrsBuilder returns a new QDiscAttrsBuilder
func NewQDiscAttrsBuilder() *QDiscAttrsBuilder {
	return &QDiscAttrsBuilder{}
}

// QDiscAttrsBuilder is a QDiscAttrs builder
type QDiscAttrsBuilder struct {
	qDiscAttrs QDiscAttrs
}

// WithParent adds Parent to QDiscAttrsBuilder
func (qb *QDiscAttrsBuilder) WithParent(p uint32) *QDiscAttrsBuilder {
	qb.qDiscAttrs.Parent = &p
	return qb
}

// WithHandle adds Handle to QDiscAttrsBuilder
func (qb *QDiscAttrsBuilder) WithHandle(h uint32) *QDiscAttrsBuilder {
	qb.qDiscAttrs.Handle = &h
	return qb
}

// Build builds and returns a new QDiscAttrs instance
// Note: calling Build() multiple times will not return a completely
// new object on each call. that is, pointer/slice/map types will not be deep copied.
// to create several objects, different builders should be used.
func (qb *QDiscAttrsBuilder) Build() *QDiscAttrs {
	return NewQDiscAttrs(qb.qDiscAttrs.Parent, qb.qDiscAttrs.Handle)
}

// FindRootNetem returns the netem qdisc attached at the root of the device, nil if there is none
func FindRootNetem(qdiscs []QDisc) *NetemQDisc {
	for _, q := range qdiscs {
		netem, ok := q.(*NetemQDisc)
		if ok && netem.IsRoot() {
			return netem
		}
	}
	return nil
}
