package hir

// EarlyBoundRegion is a lifetime parameter substituted at item level.
// Def is the parameter's own definition; its parent is the item declaring it.
type EarlyBoundRegion struct {
	Def   DefID
	Index uint32
	Name  string
}

// BoundRegionKind distinguishes the forms a late-bound region can take.
type BoundRegionKind uint8

const (
	BoundRegionAnon  BoundRegionKind = iota // anonymous, identified by index
	BoundRegionNamed                        // named lifetime parameter with its own DefID
	BoundRegionEnv                          // closure environment
)

// BoundRegion describes a late-bound region before it is freed.
type BoundRegion struct {
	Kind  BoundRegionKind
	Def   DefID // valid only for BoundRegionNamed
	Index uint32
	Name  string
}

// FreeRegion is a late-bound region freed inside the function Scope.
type FreeRegion struct {
	Scope DefID
	Bound BoundRegion
}
