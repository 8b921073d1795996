package ast

import "strings"

// Path is a `::`-separated name. It is both the target of a `use` item and
// the logical identity of an input file.
type Path struct {
	Components []string
	Leading    bool // written with a leading `::`
}

func (p Path) String() string {
	s := strings.Join(p.Components, "::")
	if p.Leading {
		return "::" + s
	}
	return s
}

// Slash joins the components with '/', the form used for output locations.
func (p Path) Slash() string {
	return strings.Join(p.Components, "/")
}

// PathFromFile derives a file's identity from its root-relative, slash
// separated file name: `base/hdl.knum` becomes base::hdl.
func PathFromFile(rel string) Path {
	rel = strings.TrimSuffix(rel, ".knum")
	return Path{Components: strings.Split(rel, "/")}
}
