package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/vyPal/WebOS/loader"
)

func signature(params, results []api.ValueType) string {
	names := func(ts []api.ValueType) string {
		var parts []string
		for _, t := range ts {
			parts = append(parts, api.ValueTypeName(t))
		}
		return strings.Join(parts, ",")
	}

	return fmt.Sprintf("(%s) -> (%s)", names(params), names(results))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)
	return keys
}

func dump(ctx context.Context, w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	mod, err := rt.CompileModule(ctx, data)
	if err != nil {
		return err
	}

	key, err := loader.CacheKey(bytes.NewReader(data))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s\n  size=%d key=%s\n", path, len(data), key)

	fmt.Fprintf(w, "\n[imports]\n")
	tr := tabwriter.NewWriter(w, 4, 8, 1, ' ', 0)
	for i, fn := range mod.ImportedFunctions() {
		m, name, _ := fn.Import()
		fmt.Fprintf(tr, "%d\tfunc\t%s.%s\t%s\n", i, m, name, signature(fn.ParamTypes(), fn.ResultTypes()))
	}
	for i, mem := range mod.ImportedMemories() {
		m, name, _ := mem.Import()
		fmt.Fprintf(tr, "%d\tmemory\t%s.%s\tmin=%d\n", i, m, name, mem.Min())
	}
	tr.Flush()

	fmt.Fprintf(w, "\n[exports]\n")
	tr = tabwriter.NewWriter(w, 4, 8, 1, ' ', 0)
	funcs := mod.ExportedFunctions()
	for _, name := range sortedKeys(funcs) {
		fn := funcs[name]
		fmt.Fprintf(tr, "%d\tfunc\t%s\t%s\n", fn.Index(), name, signature(fn.ParamTypes(), fn.ResultTypes()))
	}
	mems := mod.ExportedMemories()
	for _, name := range sortedKeys(mems) {
		mem := mems[name]
		max, _ := mem.Max()
		fmt.Fprintf(tr, "%d\tmemory\t%s\tmin=%d max=%d\n", mem.Index(), name, mem.Min(), max)
	}
	tr.Flush()

	fmt.Fprintf(w, "\n[abi]\n")
	if err := loader.Validate(mod); err != nil {
		fmt.Fprintf(w, "  FAIL: %s\n", err)
		return err
	}

	fmt.Fprintf(w, "  ok\n")
	return nil
}
