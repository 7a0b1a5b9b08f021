package codegraph

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
)

// mapSource serves file content from memory.
type mapSource map[string]string

func (m mapSource) Read(path string) ([]byte, error) {
	content, ok := m[path]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", path)
	}
	return []byte(content), nil
}

func analyzeSource(t *testing.T, files mapSource, opts ...Option) *Graph {
	t.Helper()
	a := New(opts...)
	defer a.Close()

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	// Map iteration order is random; fix it so failures reproduce.
	for i := 0; i < len(paths); i++ {
		for j := i + 1; j < len(paths); j++ {
			if paths[j] < paths[i] {
				paths[i], paths[j] = paths[j], paths[i]
			}
		}
	}

	g, err := a.Analyze(context.Background(), paths, files)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	return g
}

func mustNode(t *testing.T, g *Graph, id string) Node {
	t.Helper()
	n, ok := g.NodeByID(id)
	if !ok {
		t.Fatalf("node %q not found; have %d nodes", id, len(g.Nodes))
	}
	return n
}

func hasEdge(g *Graph, source, target string, kind EdgeKind) bool {
	for _, e := range g.Edges {
		if e.Source == source && e.Target == target && e.Kind == kind {
			return true
		}
	}
	return false
}

func TestAnalyze_NoInput(t *testing.T) {
	a := New()
	defer a.Close()

	_, err := a.Analyze(context.Background(), nil, mapSource{})
	if !errors.Is(err, ErrNoInput) {
		t.Errorf("expected ErrNoInput, got %v", err)
	}
}

func TestAnalyze_UnusedClass(t *testing.T) {
	g := analyzeSource(t, mapSource{
		"Shop.cs": `
namespace Shop {
    public class Widget {
        public void Render() { }
    }
    public class Orphan {
        public void Never() { }
    }
    public class Program {
        public static void Main() {
            var w = new Widget();
            w.Render();
        }
    }
}`,
	})

	if !mustNode(t, g, "Shop").Used {
		t.Error("namespace should always be used")
	}
	if !mustNode(t, g, "Shop.Widget").Used {
		t.Error("Widget is constructed and should be used")
	}
	if !mustNode(t, g, "Shop.Widget.Render").Used {
		t.Error("Render is called and should be used")
	}
	if mustNode(t, g, "Shop.Orphan").Used {
		t.Error("Orphan has no references and should be unused")
	}
	if mustNode(t, g, "Shop.Orphan.Never").Used {
		t.Error("Orphan.Never has no callers and should be unused")
	}
	if !mustNode(t, g, "Shop.Program").Used {
		t.Error("Program is an entry-point type and should be used")
	}
	if !mustNode(t, g, "Shop.Program.Main").Used {
		t.Error("Main is an entry-point method and should be used")
	}

	if !hasEdge(g, "Shop.Program.Main", "Shop.Widget.Render", EdgeCall) {
		t.Error("expected call edge Main -> Widget.Render")
	}
	if g.Stats.UnusedCount == 0 {
		t.Error("expected a nonzero unused count")
	}
	if g.Stats.FilesAnalyzed != 1 {
		t.Errorf("FilesAnalyzed = %d, want 1", g.Stats.FilesAnalyzed)
	}
}

func TestAnalyze_ExternalCall(t *testing.T) {
	g := analyzeSource(t, mapSource{
		"App.cs": `
namespace App {
    public class Program {
        public static void Main() {
            System.Console.WriteLine("hello");
        }
    }
}`,
	})

	n := mustNode(t, g, "System.Console.WriteLine")
	if n.Kind != NodeExternalMethod {
		t.Errorf("kind = %s, want %s", n.Kind, NodeExternalMethod)
	}
	if !n.Used {
		t.Error("external nodes are used by definition")
	}
	if !n.IsExternalLibrary {
		t.Error("System.* should classify as external library")
	}
	if !hasEdge(g, "App.Program.Main", "System.Console.WriteLine", EdgeExternal) {
		t.Error("expected external edge Main -> System.Console.WriteLine")
	}
}

func TestAnalyze_PropertyAccess(t *testing.T) {
	g := analyzeSource(t, mapSource{
		"Order.cs": `
namespace Billing {
    public class Order {
        public decimal Total { get; set; }
        public decimal Discount { get; set; }
        public void Print() {
            System.Console.WriteLine(this.Total);
        }
    }
    public class Program {
        public static void Main() {
            var o = new Order();
            o.Print();
        }
    }
}`,
	})

	if !mustNode(t, g, "Billing.Order.Total").Used {
		t.Error("Total is read and should be used")
	}
	if mustNode(t, g, "Billing.Order.Discount").Used {
		t.Error("Discount is never accessed and should be unused")
	}
	if !hasEdge(g, "Billing.Order.Print", "Billing.Order.Total", EdgeReference) {
		t.Error("expected reference edge Print -> Total")
	}
}

func TestAnalyze_InitializerAssignment(t *testing.T) {
	g := analyzeSource(t, mapSource{
		"Init.cs": `
namespace App {
    public class Config {
        public string Name { get; set; }
    }
    public class Program {
        public static void Main() {
            var c = new Config { Name = "x" };
        }
    }
}`,
	})

	if !mustNode(t, g, "App.Config.Name").Used {
		t.Error("initializer assignment should mark the property used")
	}
	if !mustNode(t, g, "App.Config").Used {
		t.Error("construction should mark the type used")
	}
}

func TestAnalyze_OverrideIsUsed(t *testing.T) {
	g := analyzeSource(t, mapSource{
		"Handlers.cs": `
namespace App {
    public class Base {
        public virtual void Handle() { }
    }
    public class Derived : Base {
        public override void Handle() { }
    }
}`,
	})

	if !mustNode(t, g, "App.Derived.Handle").Used {
		t.Error("override methods should be used without callers")
	}
	if !mustNode(t, g, "App.Base").Used {
		t.Error("a declared subtype should keep the base type used")
	}
}

func TestAnalyze_SelfCallSuppressed(t *testing.T) {
	g := analyzeSource(t, mapSource{
		"Rec.cs": `
namespace App {
    public class Counter {
        public void Tick() {
            Tick();
        }
    }
}`,
	})

	if hasEdge(g, "App.Counter.Tick", "App.Counter.Tick", EdgeCall) {
		t.Error("self-loop edge should be suppressed")
	}
	// The one-hop rule still marks the target used.
	if !mustNode(t, g, "App.Counter.Tick").Used {
		t.Error("a recursive method references itself and counts as used")
	}
}

func TestAnalyze_CrossFileResolution(t *testing.T) {
	files := mapSource{
		"a/Service.cs": `
namespace App.Services {
    public class Mailer {
        public void Send() { }
    }
}`,
		"b/Program.cs": `
using App.Services;

namespace App {
    public class Program {
        public static void Main() {
            var m = new Mailer();
            m.Send();
        }
    }
}`,
	}

	g := analyzeSource(t, files)
	if !mustNode(t, g, "App.Services.Mailer.Send").Used {
		t.Error("cross-file call should mark Send used")
	}
	if !hasEdge(g, "App.Program.Main", "App.Services.Mailer.Send", EdgeCall) {
		t.Error("expected call edge across files")
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	files := mapSource{
		"x/One.cs": `
namespace App {
    public class One { public void A() { } }
}`,
		"y/Two.cs": `
namespace App {
    public class Two {
        public void B() {
            var o = new One();
            o.A();
        }
    }
}`,
	}

	a := New()
	defer a.Close()

	first, err := a.Analyze(context.Background(), []string{"x/One.cs", "y/Two.cs"}, files)
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.Analyze(context.Background(), []string{"y/Two.cs", "x/One.cs"}, files)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first.Nodes, second.Nodes) {
		t.Error("node output should not depend on file order")
	}
	if !reflect.DeepEqual(first.Edges, second.Edges) {
		t.Error("edge output should not depend on file order")
	}

	// Both files declare namespace App; attribution must go to the
	// lexicographically first path no matter which file arrives first.
	for _, g := range []*Graph{first, second} {
		if got := mustNode(t, g, "App").FilePath; got != "x/One.cs" {
			t.Errorf("App.FilePath = %q, want %q", got, "x/One.cs")
		}
	}
}

func TestAnalyze_ExternalSingleNode(t *testing.T) {
	// The same external member reached as a call in one method and as a
	// member access in another must collapse onto one node, and the call
	// occurrence decides its kind.
	g := analyzeSource(t, mapSource{
		"App.cs": `
namespace App {
    public class Writer {
        public void Log() {
            Logger.Info("written");
        }
    }
    public class Reader {
        public void Check() {
            System.Console.WriteLine(Logger.Info);
        }
    }
}`,
	})

	count := 0
	for _, n := range g.Nodes {
		if n.ID == "Logger.Info" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("got %d Logger.Info nodes, want exactly 1", count)
	}

	n := mustNode(t, g, "Logger.Info")
	if n.Kind != NodeExternalMethod {
		t.Errorf("kind = %s, want %s", n.Kind, NodeExternalMethod)
	}
	if !n.Used {
		t.Error("external nodes are used by definition")
	}
	if !hasEdge(g, "App.Writer.Log", "Logger.Info", EdgeExternal) {
		t.Error("expected external edge from the calling method")
	}
	if !hasEdge(g, "App.Reader.Check", "Logger.Info", EdgeExternal) {
		t.Error("expected external edge from the accessing method")
	}
}

func TestAnalyze_NoDanglingEdges(t *testing.T) {
	g := analyzeSource(t, mapSource{
		"App.cs": `
namespace App {
    public class Svc {
        public int Count { get; set; }
        public void Work() {
            System.Console.WriteLine(Count);
            Helper.Run();
        }
    }
}`,
	})

	nodeSet := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		nodeSet[n.ID] = struct{}{}
	}
	for _, e := range g.Edges {
		if _, ok := nodeSet[e.Source]; !ok {
			t.Errorf("edge source %q has no node", e.Source)
		}
		if _, ok := nodeSet[e.Target]; !ok {
			t.Errorf("edge target %q has no node", e.Target)
		}
	}
}

func TestAnalyze_ContainmentForest(t *testing.T) {
	g := analyzeSource(t, mapSource{
		"Deep.cs": `
namespace Outer {
    namespace Inner {
        public class Thing {
            public int Value { get; set; }
            public void Act() {
                var local = 1;
            }
        }
    }
}`,
	})

	parents := make(map[string]string)
	for _, e := range g.Edges {
		if e.Kind != EdgeContainment {
			continue
		}
		if prev, dup := parents[e.Target]; dup {
			t.Errorf("node %q has two containment parents: %q and %q", e.Target, prev, e.Source)
		}
		parents[e.Target] = e.Source
	}

	for _, want := range [][2]string{
		{"Outer.Inner", "Outer.Inner.Thing"},
		{"Outer.Inner.Thing", "Outer.Inner.Thing.Value"},
		{"Outer.Inner.Thing", "Outer.Inner.Thing.Act"},
		{"Outer.Inner.Thing.Act", "Outer.Inner.Thing.Act.local"},
	} {
		if !hasEdge(g, want[0], want[1], EdgeContainment) {
			t.Errorf("missing containment edge %s -> %s", want[0], want[1])
		}
	}
}

func TestAnalyze_CustomEntryPoints(t *testing.T) {
	src := mapSource{
		"Job.cs": `
namespace App {
    public class NightlyJob {
        public void Execute() { }
    }
}`,
	}

	g := analyzeSource(t, src)
	if mustNode(t, g, "App.NightlyJob.Execute").Used {
		t.Fatal("Execute should be unused under default entry points")
	}

	g = analyzeSource(t, src,
		WithEntryPointMethods(MethodName("Execute")),
	)
	if !mustNode(t, g, "App.NightlyJob.Execute").Used {
		t.Error("Execute should be used when named as an entry point")
	}
	if !mustNode(t, g, "App.NightlyJob").Used {
		t.Error("the entry method's type should be used too")
	}
}

func TestAnalyze_CustomExternalPrefixes(t *testing.T) {
	g := analyzeSource(t, mapSource{
		"App.cs": `
namespace App {
    public class P {
        public void Run() {
            Acme.Sdk.Client.Connect();
        }
    }
}`,
	}, WithExternalPrefixes("Acme"))

	n := mustNode(t, g, "Acme.Sdk.Client.Connect")
	if !n.IsExternalLibrary {
		t.Error("Acme.* should classify as external library with custom prefixes")
	}
}

func TestAnalyze_ParseFailureDegrades(t *testing.T) {
	g := analyzeSource(t, mapSource{
		"Good.cs": `
namespace App {
    public class Ok { public void Fine() { } }
}`,
		"Missing.cs": "", // served, but empty: no declarations
	})

	if _, ok := g.NodeByID("App.Ok"); !ok {
		t.Error("good file should still be analyzed")
	}
}

func TestAnalyzeTrees_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := New()
	defer a.Close()

	_, err := a.Analyze(ctx, []string{"App.cs"}, mapSource{"App.cs": "namespace A { }"})
	if err == nil {
		t.Error("expected error from cancelled context")
	}
}
