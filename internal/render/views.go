package render

import (
	"fmt"
	"strings"

	"github.com/papapumpkin/sysarch/internal/connections"
	"github.com/papapumpkin/sysarch/internal/hierarchy"
	"github.com/papapumpkin/sysarch/internal/model"
)

// Tree writes a hierarchy tree. In text form each level is drawn with
// box-drawing branches beneath the root assembly.
func (r *Renderer) Tree(root *hierarchy.TreeNode) error {
	if ok, err := r.encode(root); ok {
		return err
	}
	r.printf("%s\n", r.treeLabel(root, true))
	r.treeChildren(root.Children, "")
	return nil
}

func (r *Renderer) treeChildren(children []*hierarchy.TreeNode, prefix string) {
	for i, c := range children {
		branch, indent := "├── ", "│   "
		if i == len(children)-1 {
			branch, indent = "└── ", "    "
		}
		r.printf("%s%s\n", r.st.branch.Render(prefix+branch), r.treeLabel(c, false))
		r.treeChildren(c.Children, prefix+indent)
	}
}

func (r *Renderer) treeLabel(n *hierarchy.TreeNode, root bool) string {
	var b strings.Builder
	if !root && n.InstanceName != "" {
		b.WriteString(r.st.instance.Render(n.InstanceName))
		b.WriteString(": ")
	}
	switch {
	case n.Circular:
		b.WriteString(r.st.danger.Render(n.Name))
		b.WriteString(r.st.muted.Render(fmt.Sprintf(" (assembly %d)", n.ID)))
	case n.IsAssembly():
		b.WriteString(r.st.assembly.Render(n.Name))
		b.WriteString(r.st.muted.Render(details("assembly", n.ID, n.FileLocation)))
	default:
		b.WriteString(r.st.part.Render(n.PartName))
		b.WriteString(r.st.muted.Render(details("part", n.PartID, n.PartFileLocation)))
	}
	return b.String()
}

func details(kind string, id int64, file string) string {
	if file == "" {
		return fmt.Sprintf(" (%s %d)", kind, id)
	}
	return fmt.Sprintf(" (%s %d, %s)", kind, id, file)
}

// Occurrences writes the flattened part list of an assembly. Text rows are
// indented two spaces per nesting level.
func (r *Renderer) Occurrences(assemblyID int64, recs []hierarchy.PartOccurrence) error {
	if ok, err := r.encode(nonNil(recs)); ok {
		return err
	}
	if len(recs) == 0 {
		r.printf("No parts found in assembly.\n")
		return nil
	}
	r.printf("\n%s\n%s\n", r.st.heading.Render(fmt.Sprintf("Parts in assembly %d:", assemblyID)), rule)
	for _, o := range recs {
		r.printf("%sPart ID: %d, Name: %s, Instance: %s, File: %s\n",
			strings.Repeat("  ", o.Level), o.PartID, r.st.part.Render(o.PartName),
			r.st.instance.Render(o.InstanceName), o.PartFileLocation)
	}
	return nil
}

// Connections writes connector records. subject names what was looked up,
// for example "part 3".
func (r *Renderer) Connections(subject string, recs []connections.Record) error {
	if ok, err := r.encode(nonNil(recs)); ok {
		return err
	}
	r.printf("\n%s\n", r.st.heading.Render(fmt.Sprintf("Connections for %s:", subject)))
	if len(recs) == 0 {
		r.printf("No connections found.\n")
		return nil
	}
	r.printf("%s\n", rule)
	for _, c := range recs {
		r.printf("Connector ID: %d, Type: %s, Feature1: %d, Feature2: %d, Item1: %d, Item2: %d\n",
			c.ConnectorID, r.st.instance.Render(string(c.Type)), c.Feature1ID, c.Feature2ID, c.AssemblyItem1ID, c.AssemblyItem2ID)
	}
	return nil
}

// Features writes the features of a part.
func (r *Renderer) Features(partID int64, fs []model.Feature) error {
	if ok, err := r.encode(nonNil(fs)); ok {
		return err
	}
	if len(fs) == 0 {
		r.printf("No features found for part %d.\n", partID)
		return nil
	}
	r.printf("\n%s\n%s\n", r.st.heading.Render(fmt.Sprintf("Features of part %d:", partID)), rule)
	for _, f := range fs {
		r.printf("Feature ID: %d, Name: %s\n", f.ID, r.st.part.Render(f.Name))
	}
	return nil
}

// Assemblies writes a list of assemblies under a heading.
func (r *Renderer) Assemblies(heading string, as []model.Assembly) error {
	if ok, err := r.encode(nonNil(as)); ok {
		return err
	}
	if len(as) == 0 {
		r.printf("No assemblies found.\n")
		return nil
	}
	r.printf("\n%s\n%s\n", r.st.heading.Render(heading), rule)
	for _, a := range as {
		r.printf("Assembly ID: %d, Name: %s, File: %s\n", a.ID, r.st.assembly.Render(a.Name), a.FileLocation)
	}
	return nil
}

// Report writes a containment audit.
func (r *Renderer) Report(rep *hierarchy.Report) error {
	if ok, err := r.encode(rep); ok {
		return err
	}
	r.printf("%s\n%s\n", r.st.heading.Render("Containment audit"), rule)
	r.printf("assemblies: %d  items: %d  max depth: %d\n", rep.Assemblies, rep.Items, rep.MaxDepth)
	r.printf("roots: %s\n", joinIDs(rep.Roots))
	r.printf("families: %d\n", len(rep.Families))
	for _, f := range rep.Families {
		r.printf("  #%d: %s %s\n", f.ID, joinIDs(f.AssemblyIDs), r.st.muted.Render("(roots "+joinIDs(f.Roots)+")"))
	}
	if rep.Healthy() {
		r.printf("%s\n", r.st.ok.Render("no containment cycles"))
		return nil
	}
	r.printf("%s\n", r.st.danger.Render(fmt.Sprintf("%d item(s) close a containment cycle:", len(rep.CyclicItems))))
	for _, it := range rep.CyclicItems {
		r.printf("  item %d: assembly %d contains assembly %d as %q\n",
			it.ID, it.AssemblyID, *it.SubAssemblyID, it.InstanceName)
	}
	return nil
}

func joinIDs(ids []int64) string {
	if len(ids) == 0 {
		return "none"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}
