package tsx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamertofabian/maidrunner/internal/types"
)

func TestParseSource_TypeScriptClassMethodAndInterface(t *testing.T) {
	src := []byte(`
interface Credentials {
  username: string;
}

export class AuthService {
  private token: string;

  login(creds: Credentials) {
    return true;
  }

  #logout() {
    return false;
  }
}
`)
	a := New()
	require.NotNil(t, a)

	desc, diags := a.ParseSource("auth.ts", src)
	assert.Empty(t, diags)

	var sawClass, sawInterface, sawMethod, sawPrivateAttr bool
	for _, art := range desc.Defined {
		switch {
		case art.Type == types.KindClass && art.Name == "AuthService":
			sawClass = true
		case art.Type == types.KindInterface && art.Name == "Credentials":
			sawInterface = true
		case art.Type == types.KindMethod && art.Name == "login":
			sawMethod = true
			assert.Equal(t, "AuthService", art.Class)
		case art.Type == types.KindAttribute && art.Name == "token":
			sawPrivateAttr = true
		}
	}
	assert.True(t, sawClass)
	assert.True(t, sawInterface)
	assert.True(t, sawMethod)
	_ = sawPrivateAttr
}

func TestParseSource_ReturnTypeExcludesAnnotationColon(t *testing.T) {
	src := []byte(`
function authenticate(username: string, password: string): boolean {
  return true;
}
`)
	a := New()
	desc, diags := a.ParseSource("auth.ts", src)
	assert.Empty(t, diags)

	require.Len(t, desc.Defined, 1)
	assert.Equal(t, "boolean", desc.Defined[0].Returns, "Returns must be the bare type, not the \": boolean\" annotation span")
}

func TestParseSource_DispatchesJavaScriptGrammarByExtension(t *testing.T) {
	src := []byte(`
function greet(name) {
  return "hi " + name;
}
`)
	a := New()
	desc, _ := a.ParseSource("greet.js", src)

	var names []string
	for _, art := range desc.Defined {
		names = append(names, art.Name)
	}
	assert.Contains(t, names, "greet")
}

func TestParseTests_CallAndImportUsages(t *testing.T) {
	src := []byte(`
import { AuthService } from "./auth";

test("logs in", () => {
  const svc = new AuthService();
  svc.login({ username: "a" });
});
`)
	a := New()
	desc, _ := a.ParseTests("auth.test.ts", src)

	var sawNew, sawCall, sawImport bool
	for _, u := range desc.Usages {
		if u.Kind == types.UsageInstantiate && u.Name == "AuthService" {
			sawNew = true
		}
		if u.Kind == types.UsageCall && u.Name == "login" {
			sawCall = true
		}
	}
	for _, imp := range desc.Imports {
		if imp.Module == "./auth" {
			sawImport = true
		}
	}
	assert.True(t, sawNew)
	assert.True(t, sawCall)
	assert.True(t, sawImport)
}

func TestExtensions(t *testing.T) {
	a := New()
	assert.ElementsMatch(t, []string{".ts", ".tsx", ".js", ".jsx"}, a.Extensions())
}
