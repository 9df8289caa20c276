package fixture

import (
	"context"
	"fmt"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	"regions/internal/diag"
	"regions/internal/hir"
	"regions/internal/region"
	"regions/internal/source"
	"regions/internal/trace"
)

// Load decodes the fixture at path, builds its hir.Table and replays its
// records into a frozen ScopeTree. The tracer in ctx, if any, receives a
// body-scope span for the load and node-scope events from the tree.
func Load(ctx context.Context, path string) (*Fixture, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeBody, "fixture.load", 0)

	var f File
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		span.End("syntax error")
		return nil, &Error{Code: diag.FixtureSyntax, Path: path, Record: -1, Err: fmt.Errorf("failed to parse TOML: %w", err)}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		span.End("unknown keys")
		return nil, &Error{Code: diag.FixtureUnknownKey, Path: path, Record: -1,
			Err: fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))}
	}
	if !meta.IsDefined("body", "owner") || strings.TrimSpace(f.Body.Owner) == "" {
		span.End("no owner")
		return nil, &Error{Code: diag.FixtureSyntax, Path: path, Record: -1, Err: ErrMissingOwner}
	}

	fx, err := build(path, &f, meta, tracer)
	if err != nil {
		span.End("replay failed")
		return nil, err
	}
	span.WithExtra("links", fmt.Sprint(fx.Tree.Len())).End(path)
	return fx, nil
}

type builder struct {
	path   string
	table  *hir.Table
	owners map[string]hir.OwnerID
}

func (b *builder) owner(path string) hir.OwnerID {
	if id, ok := b.owners[path]; ok {
		return id
	}
	id := b.table.NewOwner(path)
	b.owners[path] = id
	return id
}

func (b *builder) fail(code diag.Code, record int, format string, args ...any) error {
	return &Error{Code: code, Path: b.path, Record: record, Err: fmt.Errorf(format, args...)}
}

func build(path string, f *File, meta toml.MetaData, tracer trace.Tracer) (*Fixture, error) {
	b := &builder{path: path, table: hir.NewTable(), owners: make(map[string]hir.OwnerID)}
	owner := b.owner(f.Body.Owner)

	root, err := toLocal("body.root", f.Body.Root)
	if err != nil {
		return nil, b.fail(diag.FixtureSyntax, -1, "%w", err)
	}
	opts := region.Options{RootBody: hir.HirID{Owner: owner, Local: root}, Tracer: tracer}
	if f.Body.Parent != "" {
		local, err := toLocal("body.parent_local", f.Body.ParentLocal)
		if err != nil {
			return nil, b.fail(diag.FixtureSyntax, -1, "%w", err)
		}
		opts.RootParent = hir.HirID{Owner: b.owner(f.Body.Parent), Local: local}
	}
	hint, err := safecast.Conv[uint](len(f.Records))
	if err != nil {
		return nil, b.fail(diag.FixtureSyntax, -1, "record count: %w", err)
	}
	opts.Hints = region.Hints{Scopes: hint}

	for i, n := range f.Nodes {
		if err := b.addNode(owner, n); err != nil {
			return nil, b.fail(diag.FixtureSyntax, -1, "nodes[%d]: %w", i, err)
		}
	}

	fx := &Fixture{
		Path:  path,
		Owner: owner,
		Table: b.table,
		Names: make(map[hir.DefID]string, len(f.Defs)),
		defs:  make(map[hir.DefID]Def, len(f.Defs)),
	}
	for i, d := range f.Defs {
		id, err := b.addDef(owner, d)
		if err != nil {
			return nil, b.fail(diag.FixtureSyntax, -1, "defs[%d]: %w", i, err)
		}
		fx.defs[id] = d
		if d.Name != "" {
			fx.Names[id] = d.Name
		}
	}

	tree := region.NewScopeTree(opts)
	if meta.IsDefined("body", "expr_count") {
		if err := replayOne(tree, Record{Op: "body_count", Body: f.Body.Root, Count: f.Body.ExprCount}, owner); err != nil {
			return nil, b.fail(diag.FixtureRecordFailed, -1, "body.expr_count: %w", err)
		}
	}
	for i, r := range f.Records {
		if err := replayOne(tree, r, owner); err != nil {
			return nil, b.fail(codeFor(err), i, "%w", err)
		}
	}
	if err := tree.Freeze(); err != nil {
		return nil, b.fail(diag.InvariantDepth, -1, "%w", err)
	}
	fx.Tree = tree
	return fx, nil
}

func (b *builder) addNode(owner hir.OwnerID, n Node) error {
	id, err := toLocal("id", n.ID)
	if err != nil {
		return err
	}
	sp, err := toSpan("span", n.Span)
	if err != nil {
		return err
	}
	hid := hir.HirID{Owner: owner, Local: id}
	if len(n.Stmts) == 0 {
		b.table.AddNode(hid, sp)
		return nil
	}
	stmts := make([]source.Span, len(n.Stmts))
	for i, raw := range n.Stmts {
		if stmts[i], err = toSpan(fmt.Sprintf("stmts[%d]", i), raw); err != nil {
			return err
		}
	}
	b.table.AddBlock(hid, sp, stmts...)
	return nil
}

func (b *builder) addDef(bodyOwner hir.OwnerID, d Def) (hir.DefID, error) {
	id, err := toDef("id", d.ID)
	if err != nil {
		return 0, err
	}
	if !id.IsValid() {
		return 0, fmt.Errorf("def id 0 is reserved")
	}
	parent, err := toDef("parent", d.Parent)
	if err != nil {
		return 0, err
	}
	if d.Foreign {
		b.table.AddForeignDef(id, parent)
		return id, nil
	}
	owner := bodyOwner
	if d.Owner != "" {
		owner = b.owner(d.Owner)
	}
	local, err := toLocal("local", d.Local)
	if err != nil {
		return 0, err
	}
	node := hir.HirID{Owner: owner, Local: local}
	b.table.AddDef(id, parent, node)
	if d.Body != nil {
		body, err := toLocal("body", *d.Body)
		if err != nil {
			return 0, err
		}
		b.table.SetBody(node, hir.BodyID{Value: hir.HirID{Owner: owner, Local: body}})
	}
	return id, nil
}

func toSpan(field string, raw []int64) (source.Span, error) {
	if len(raw) == 0 {
		return source.NoSpan, nil
	}
	if len(raw) != 3 {
		return source.NoSpan, fmt.Errorf("%s: want [file, start, end], got %d values", field, len(raw))
	}
	var parts [3]uint32
	for i, n := range raw {
		v, err := toUint32(field, n)
		if err != nil {
			return source.NoSpan, err
		}
		parts[i] = v
	}
	if parts[2] < parts[1] {
		return source.NoSpan, fmt.Errorf("%s: end %d before start %d", field, parts[2], parts[1])
	}
	return source.Span{File: source.FileID(parts[0]), Start: parts[1], End: parts[2]}, nil
}
