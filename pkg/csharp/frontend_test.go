package csharp

import (
	"testing"

	"github.com/auspexlabs/auspex/pkg/syntax"
)

func extract(t *testing.T, source string) *FileData {
	t.Helper()
	f := NewFrontend()
	defer f.Close()

	fd, err := f.Extract([]byte(source), "test.cs")
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	return fd
}

func findChild(d *syntax.Decl, kind syntax.DeclKind, name string) *syntax.Decl {
	for _, c := range d.Children {
		if c.Kind == kind && c.Name == name {
			return c
		}
	}
	return nil
}

func TestExtract_Namespace(t *testing.T) {
	fd := extract(t, `
namespace App.Services {
    public class Mailer { }
}`)

	if len(fd.Tree.Decls) != 1 {
		t.Fatalf("got %d top-level decls, want 1", len(fd.Tree.Decls))
	}
	ns := fd.Tree.Decls[0]
	if ns.Kind != syntax.DeclNamespace || ns.Name != "App.Services" {
		t.Errorf("decl = %s %q, want namespace App.Services", ns.Kind, ns.Name)
	}
	if findChild(ns, syntax.DeclClass, "Mailer") == nil {
		t.Error("Mailer class not extracted under the namespace")
	}
}

func TestExtract_FileScopedNamespace(t *testing.T) {
	fd := extract(t, `
namespace App.Services;

public class Mailer {
    public void Send() { }
}`)

	if len(fd.Tree.Decls) != 1 {
		t.Fatalf("got %d top-level decls, want 1", len(fd.Tree.Decls))
	}
	ns := fd.Tree.Decls[0]
	if ns.Name != "App.Services" {
		t.Errorf("namespace = %q", ns.Name)
	}
	mailer := findChild(ns, syntax.DeclClass, "Mailer")
	if mailer == nil {
		t.Fatal("trailing class should belong to the file-scoped namespace")
	}
	if findChild(mailer, syntax.DeclMethod, "Send") == nil {
		t.Error("Send method not extracted")
	}
}

func TestExtract_UsingsAndAliases(t *testing.T) {
	fd := extract(t, `
using System;
using App.Services;
using Js = Newtonsoft.Json;

namespace App { }`)

	if len(fd.Usings) != 2 || fd.Usings[0] != "System" || fd.Usings[1] != "App.Services" {
		t.Errorf("Usings = %v", fd.Usings)
	}
	if fd.Aliases["Js"] != "Newtonsoft.Json" {
		t.Errorf("Aliases = %v", fd.Aliases)
	}
}

func TestExtract_ClassMembers(t *testing.T) {
	fd := extract(t, `
namespace App {
    public class Order : BaseEntity, IAuditable {
        private int _count;
        public decimal Total { get; set; }
        public void Recalc(int factor) {
            var rounded = 0;
        }
    }
}`)

	order := findChild(fd.Tree.Decls[0], syntax.DeclClass, "Order")
	if order == nil {
		t.Fatal("Order class not extracted")
	}
	if len(order.Bases) != 2 || order.Bases[0] != "BaseEntity" || order.Bases[1] != "IAuditable" {
		t.Errorf("Bases = %v", order.Bases)
	}

	total := findChild(order, syntax.DeclProperty, "Total")
	if total == nil || total.TypeName != "decimal" {
		t.Errorf("Total property = %+v", total)
	}
	count := findChild(order, syntax.DeclField, "_count")
	if count == nil || count.TypeName != "int" {
		t.Errorf("_count field = %+v", count)
	}
	recalc := findChild(order, syntax.DeclMethod, "Recalc")
	if recalc == nil {
		t.Fatal("Recalc method not extracted")
	}
	if findChild(recalc, syntax.DeclLocal, "rounded") == nil {
		t.Error("local declaration not extracted under the method")
	}
}

func TestExtract_OverrideModifier(t *testing.T) {
	fd := extract(t, `
namespace App {
    public class Derived : Base {
        public override void Handle() { }
        public void Plain() { }
    }
}`)

	derived := findChild(fd.Tree.Decls[0], syntax.DeclClass, "Derived")
	if h := findChild(derived, syntax.DeclMethod, "Handle"); h == nil || !h.Override {
		t.Error("Handle should carry the override flag")
	}
	if p := findChild(derived, syntax.DeclMethod, "Plain"); p == nil || p.Override {
		t.Error("Plain should not carry the override flag")
	}
}

func TestExtract_References(t *testing.T) {
	fd := extract(t, `
namespace App {
    public class Svc {
        private Repo _repo;
        public void Work(Mailer mailer) {
            var order = new Order();
            order.Submit();
            mailer.Send();
            _repo.Save();
            var name = order.Label;
        }
    }
}`)

	svc := findChild(fd.Tree.Decls[0], syntax.DeclClass, "Svc")
	work := findChild(svc, syntax.DeclMethod, "Work")
	if work == nil {
		t.Fatal("Work method not extracted")
	}

	type key struct {
		kind     syntax.RefKind
		member   string
		receiver string
	}
	got := make(map[key]bool)
	for _, r := range work.Refs {
		got[key{r.Kind, r.Member, r.Receiver}] = true
	}

	wants := []key{
		{syntax.RefObjectCreation, "", ""},         // new Order()
		{syntax.RefInvocation, "Submit", "Order"},  // local typed by creation
		{syntax.RefInvocation, "Send", "Mailer"},   // parameter type
		{syntax.RefInvocation, "Save", "Repo"},     // field type
		{syntax.RefMemberAccess, "Label", "Order"}, // property read off a local
	}
	for _, w := range wants {
		if !got[w] {
			t.Errorf("missing ref %+v in %+v", w, work.Refs)
		}
	}
}

func TestExtract_InitializerAssignment(t *testing.T) {
	fd := extract(t, `
namespace App {
    public class Svc {
        public void Make() {
            var c = new Config { Name = "x", Retries = 3 };
        }
    }
}`)

	svc := findChild(fd.Tree.Decls[0], syntax.DeclClass, "Svc")
	mk := findChild(svc, syntax.DeclMethod, "Make")

	var inits []syntax.Ref
	for _, r := range mk.Refs {
		if r.Kind == syntax.RefInitAssignment {
			inits = append(inits, r)
		}
	}
	if len(inits) != 2 {
		t.Fatalf("got %d initializer assignments, want 2: %+v", len(inits), mk.Refs)
	}
	for _, r := range inits {
		if r.Receiver != "Config" {
			t.Errorf("initializer receiver = %q, want Config", r.Receiver)
		}
	}
	if inits[0].Member != "Name" || inits[1].Member != "Retries" {
		t.Errorf("initializer members = %q, %q", inits[0].Member, inits[1].Member)
	}
}

func TestExtract_ThisReceiver(t *testing.T) {
	fd := extract(t, `
namespace App {
    public class Svc {
        public int Count { get; set; }
        public void Bump() {
            var x = this.Count;
        }
    }
}`)

	svc := findChild(fd.Tree.Decls[0], syntax.DeclClass, "Svc")
	bump := findChild(svc, syntax.DeclMethod, "Bump")

	var found bool
	for _, r := range bump.Refs {
		if r.Kind == syntax.RefMemberAccess && r.Member == "Count" && r.Receiver == "this" {
			found = true
		}
	}
	if !found {
		t.Errorf("this.Count access not recorded: %+v", bump.Refs)
	}
}

func TestExtract_NullableTypeTrimmed(t *testing.T) {
	fd := extract(t, `
namespace App {
    public class Svc {
        public string? Note { get; set; }
    }
}`)

	svc := findChild(fd.Tree.Decls[0], syntax.DeclClass, "Svc")
	note := findChild(svc, syntax.DeclProperty, "Note")
	if note == nil || note.TypeName != "string" {
		t.Errorf("Note = %+v, want TypeName string", note)
	}
}
