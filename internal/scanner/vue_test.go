package scanner

import "testing"

const vueButtonSource = `<template>
  <button class="btn btn-primary">
    <slot />
  </button>
</template>

<script setup lang="ts">
import { useTheme } from './theme'
const props = defineProps({
  size: { type: String, required: true, default: 'md' },
  label: String,
})
</script>

<style scoped>
.btn {
  color: #336699;
  padding: 8px;
}
</style>
`

func TestVueScannerParse(t *testing.T) {
	out, err := VueScanner{}.Parse(SourceFile{RelPath: "src/base-button.vue", Content: vueButtonSource})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(out.Components) != 1 {
		t.Fatalf("expected one component, got %+v", out.Components)
	}

	comp := out.Components[0]
	if comp.Name != "BaseButton" || comp.Framework != "vue" {
		t.Fatalf("unexpected component: %+v", comp)
	}
	if len(comp.Dependencies) != 1 || comp.Dependencies[0] != "./theme" {
		t.Fatalf("unexpected dependencies: %v", comp.Dependencies)
	}

	if len(comp.Props) != 2 {
		t.Fatalf("expected 2 props, got %+v", comp.Props)
	}
	size := comp.Props[0]
	if size.Name != "size" || size.Type != "String" || !size.Required || size.Default != "'md'" {
		t.Fatalf("unexpected size prop: %+v", size)
	}
	if comp.Props[1].Name != "label" || comp.Props[1].Type != "String" {
		t.Fatalf("unexpected label prop: %+v", comp.Props[1])
	}
}

func TestVueScannerRegions(t *testing.T) {
	out, err := VueScanner{}.Parse(SourceFile{RelPath: "src/base-button.vue", Content: vueButtonSource})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(out.Occurrences) != 1 {
		t.Fatalf("expected one class occurrence, got %+v", out.Occurrences)
	}
	occ := out.Occurrences[0]
	if occ.Classes != "btn btn-primary" || occ.Line != 2 {
		t.Fatalf("unexpected occurrence: %+v", occ)
	}

	var colorLine, spacingLine int
	for _, sig := range out.Signals {
		switch sig.Value {
		case "#336699":
			colorLine = sig.Context.Line
		case "8px":
			spacingLine = sig.Context.Line
		}
	}
	if colorLine != 17 {
		t.Fatalf("expected style color signal on line 17, got %d", colorLine)
	}
	if spacingLine != 18 {
		t.Fatalf("expected style spacing signal on line 18, got %d", spacingLine)
	}
}

func TestVueScannerOptionsAPI(t *testing.T) {
	src := `<script>
export default {
  name: 'AppCard',
  props: {
    elevated: { type: Boolean, required: true },
  },
}
</script>
`
	out, err := VueScanner{}.Parse(SourceFile{RelPath: "src/app-card.vue", Content: src})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	comp := out.Components[0]
	if comp.Name != "AppCard" {
		t.Fatalf("expected name from component options, got %q", comp.Name)
	}
	if len(comp.Props) != 1 || comp.Props[0].Type != "Boolean" || !comp.Props[0].Required {
		t.Fatalf("unexpected props: %+v", comp.Props)
	}
}

func TestVueScannerUnbalancedProps(t *testing.T) {
	src := `<script setup>
const props = defineProps({
  size: String
</script>
`
	_, err := VueScanner{}.Parse(SourceFile{RelPath: "src/broken.vue", Content: src})
	if err == nil {
		t.Fatal("expected an error for an unbalanced props declaration")
	}
}
