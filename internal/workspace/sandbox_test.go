package workspace

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixImports(t *testing.T) {
	in := `import { Card } from "@/components/ui-library/Card";
import { Check } from "@/components/ui-library/Icons";
import { cn } from "@/lib/utils";`
	want := `import { Card } from "./components/ui-library/Card";
import { Check } from "./components/ui-library/Icons";
import { cn } from "@/lib/utils";`
	assert.Equal(t, want, FixImports(in))
}

func TestSandboxFiles(t *testing.T) {
	sources := map[string]string{
		"/components/ui-library/Button.tsx": "export const Button = () => null",
		"/lib/utils.ts":                     "export const cn = () => ''",
	}
	files := SandboxFiles("", sources)

	assert.Equal(t, PlaceholderApp, files["/src/App.tsx"])
	assert.Contains(t, PlaceholderApp, "export default function App()")
	assert.Equal(t, sources["/components/ui-library/Button.tsx"], files["/src/components/ui-library/Button.tsx"])
	assert.Equal(t, sources["/lib/utils.ts"], files["/src/lib/utils.ts"])
	assert.Contains(t, files["/src/index.tsx"], `import App from "./App";`)
	assert.Contains(t, files["/src/globals.css"], "--background")
	assert.Contains(t, files["/public/index.html"], `<div id="root"></div>`)

	var tsconfig struct {
		CompilerOptions struct {
			JSX   string              `json:"jsx"`
			Paths map[string][]string `json:"paths"`
		} `json:"compilerOptions"`
	}
	require.NoError(t, json.Unmarshal([]byte(files["/tsconfig.json"]), &tsconfig))
	assert.Equal(t, "react-jsx", tsconfig.CompilerOptions.JSX)
	assert.Equal(t, []string{"./src/*"}, tsconfig.CompilerOptions.Paths["@/*"])

	var pkg struct {
		Dependencies map[string]string `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal([]byte(files["/package.json"]), &pkg))
	assert.Contains(t, pkg.Dependencies, "lucide-react")
}

func TestSandboxFiles_GeneratedCode(t *testing.T) {
	files := SandboxFiles(`import { Button } from "@/components/ui-library/Button"`, nil)
	assert.Equal(t, `import { Button } from "./components/ui-library/Button"`, files["/src/App.tsx"])
}
