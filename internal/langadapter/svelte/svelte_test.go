package svelte

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamertofabian/maidrunner/internal/types"
)

func TestParseSource_ExtractsScriptBlockFunctions(t *testing.T) {
	src := []byte(`
<script lang="ts">
  export function greet(name: string) {
    return "hi " + name;
  }

  class Counter {
    count = 0;
    increment() {
      this.count += 1;
    }
  }
</script>

<h1>{greet("world")}</h1>
`)
	a := New()
	require.NotNil(t, a)

	desc, diags := a.ParseSource("App.svelte", src)
	assert.Empty(t, diags)
	assert.Equal(t, "svelte", desc.Language)

	var sawFunc, sawClass, sawMethod bool
	for _, art := range desc.Defined {
		switch {
		case art.Type == types.KindFunction && art.Name == "greet":
			sawFunc = true
			assert.Greater(t, art.Line, 1, "line should be shifted past the <script> tag")
		case art.Type == types.KindClass && art.Name == "Counter":
			sawClass = true
		case art.Type == types.KindMethod && art.Name == "increment":
			sawMethod = true
		}
	}
	assert.True(t, sawFunc)
	assert.True(t, sawClass)
	assert.True(t, sawMethod)
}

func TestParseSource_NoScriptBlockReturnsEmptyDescriptor(t *testing.T) {
	src := []byte(`<h1>static markup only</h1>`)
	a := New()
	desc, diags := a.ParseSource("Static.svelte", src)
	assert.Empty(t, diags)
	assert.Empty(t, desc.Defined)
}

func TestParseTests_ImportsFromScriptBlock(t *testing.T) {
	src := []byte(`
<script>
  import { onMount } from "svelte";
  onMount(() => {});
</script>
`)
	a := New()
	desc, _ := a.ParseTests("App.svelte", src)

	var sawImport bool
	for _, imp := range desc.Imports {
		if imp.Module == "svelte" {
			sawImport = true
		}
	}
	assert.True(t, sawImport)
}

func TestLanguageAndExtensions(t *testing.T) {
	a := New()
	assert.Equal(t, "svelte", a.Language())
	assert.Equal(t, []string{".svelte"}, a.Extensions())
}
