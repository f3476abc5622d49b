package transform_test

import (
	"strings"
	"testing"

	"github.com/cadmod/cadmod/internal/domain"
	"github.com/cadmod/cadmod/internal/domain/rules"
	"github.com/cadmod/cadmod/internal/domain/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransformer(t *testing.T) *transform.Transformer {
	t.Helper()
	tr, err := transform.New(rules.NewRegistry(domain.DefaultConfig()))
	require.NoError(t, err)
	return tr
}

func TestTransformAccessModifiers_Pub(t *testing.T) {
	tr := newTransformer(t)

	got, n := tr.TransformAccessModifiers("pub var balance: UFix64")
	assert.Equal(t, "access(all) var balance: UFix64", got)
	assert.Equal(t, 1, n)
}

func TestTransformAccessModifiers_PubSet(t *testing.T) {
	tr := newTransformer(t)

	got, n := tr.TransformAccessModifiers("pub(set) var name: String")
	assert.Equal(t, "access(all) var name: String", got)
	assert.Equal(t, 1, n)
}

func TestTransformAccessModifiers_Priv(t *testing.T) {
	tr := newTransformer(t)

	got, n := tr.TransformAccessModifiers("priv let secret: String")
	assert.Equal(t, "access(self) let secret: String", got)
	assert.Equal(t, 1, n)
}

func TestTransformAccessModifiers_IdentifierContainingPub(t *testing.T) {
	tr := newTransformer(t)

	src := "let republic = publisher.publish()"
	got, n := tr.TransformAccessModifiers(src)
	assert.Equal(t, src, got)
	assert.Equal(t, 0, n)
}

func TestTransformAccessModifiers_PubWithoutDeclaration(t *testing.T) {
	tr := newTransformer(t)

	src := "let pub = 1"
	got, n := tr.TransformAccessModifiers(src)
	assert.Equal(t, src, got)
	assert.Equal(t, 0, n)
}

func TestTransformConformances_JoinsWithAmpersand(t *testing.T) {
	tr := newTransformer(t)

	got, n := tr.TransformConformances("resource Vault: Provider, Receiver, Balance {")
	assert.Equal(t, "resource Vault: Provider & Receiver & Balance {", got)
	assert.Equal(t, 1, n)
}

func TestTransformConformances_SingleConformanceUntouched(t *testing.T) {
	tr := newTransformer(t)

	src := "resource Vault: Provider {"
	got, n := tr.TransformConformances(src)
	assert.Equal(t, src, got)
	assert.Equal(t, 0, n)
}

func TestTransformConformances_RestrictedTypeUntouched(t *testing.T) {
	tr := newTransformer(t)

	src := "let cap: Capability<&{Receiver, Provider}> = self.cap"
	got, n := tr.TransformConformances(src)
	assert.Equal(t, src, got)
	assert.Equal(t, 0, n)
}

func TestTransformConformances_AppliesAddedInterfaceRules(t *testing.T) {
	reg := rules.NewRegistry(domain.DefaultConfig())
	reg.AddTransformationRule(domain.TransformationRule{
		Pattern:     `\bLegacyMarker\b`,
		Replacement: "ModernMarker",
		Description: "Rename the deprecated marker interface",
		Category:    domain.CategoryInterface,
	})
	tr, err := transform.New(reg)
	require.NoError(t, err)

	got, n := tr.TransformConformances("resource V: LegacyMarker {")
	assert.Equal(t, "resource V: ModernMarker {", got)
	assert.Equal(t, 1, n)
}

func TestTransformConformances_AddedRuleRunsAfterJoin(t *testing.T) {
	reg := rules.NewRegistry(domain.DefaultConfig())
	reg.AddTransformationRule(domain.TransformationRule{
		Pattern:     `\bLegacyMarker\b`,
		Replacement: "ModernMarker",
		Description: "Rename the deprecated marker interface",
		Category:    domain.CategoryInterface,
	})
	tr, err := transform.New(reg)
	require.NoError(t, err)

	got, n := tr.TransformConformances("resource V: LegacyMarker, Receiver {")
	assert.Equal(t, "resource V: ModernMarker & Receiver {", got)
	assert.Equal(t, 2, n)
}

func TestTransformConformances_InterfaceDeclaration(t *testing.T) {
	tr := newTransformer(t)

	got, n := tr.TransformConformances("struct interface Pair: First, Second {")
	assert.Equal(t, "struct interface Pair: First & Second {", got)
	assert.Equal(t, 1, n)
}

func TestTransformStorageAPI_RenamesReceivers(t *testing.T) {
	tr := newTransformer(t)

	got, n := tr.TransformStorageAPI("signer.save(<-vault, to: /storage/vault)")
	assert.Equal(t, "signer.storage.save(<-vault, to: /storage/vault)", got)
	assert.Equal(t, 1, n)

	got, n = tr.TransformStorageAPI("let ref = account.borrow<&Vault>(from: /storage/vault)")
	assert.Contains(t, got, "account.storage.borrow")
	assert.Equal(t, 1, n)
}

func TestTransformStorageAPI_UnrelatedReceiverUntouched(t *testing.T) {
	tr := newTransformer(t)

	src := "cache.save(value)"
	got, n := tr.TransformStorageAPI(src)
	assert.Equal(t, src, got)
	assert.Equal(t, 0, n)
}

func TestTransformFunctions_AnnotatesGetters(t *testing.T) {
	tr := newTransformer(t)

	got, n := tr.TransformFunctions("access(all) fun getBalance(): UFix64 {")
	assert.Equal(t, "access(all) view fun getBalance(): UFix64 {", got)
	assert.Equal(t, 1, n)
}

func TestTransformFunctions_AlreadyViewUntouched(t *testing.T) {
	tr := newTransformer(t)

	src := "access(all) view fun getBalance(): UFix64 {"
	got, n := tr.TransformFunctions(src)
	assert.Equal(t, src, got)
	assert.Equal(t, 0, n)
}

func TestTransformFunctions_NoReturnTypeUntouched(t *testing.T) {
	tr := newTransformer(t)

	src := "access(all) fun getReady() {"
	got, n := tr.TransformFunctions(src)
	assert.Equal(t, src, got)
	assert.Equal(t, 0, n)
}

func TestTransformFunctions_MutatorUntouched(t *testing.T) {
	tr := newTransformer(t)

	src := "access(all) fun setBalance(amount: UFix64) {"
	got, n := tr.TransformFunctions(src)
	assert.Equal(t, src, got)
	assert.Equal(t, 0, n)
}

func TestTransformAll_CountsByCategory(t *testing.T) {
	tr := newTransformer(t)

	src := strings.Join([]string{
		"pub contract Token {",
		"    pub var totalSupply: UFix64",
		"    priv let admin: Address",
		"",
		"    pub resource Vault: Provider, Receiver {",
		"        pub fun getBalance(): UFix64 {",
		"            return self.balance",
		"        }",
		"    }",
		"",
		"    init() {",
		"        signer.save(<-create Vault(), to: /storage/vault)",
		"    }",
		"}",
	}, "\n")

	result := tr.TransformAll(src)

	assert.NotContains(t, result.Code, "pub ")
	assert.NotContains(t, result.Code, "priv ")
	assert.Contains(t, result.Code, "access(all) contract Token")
	assert.Contains(t, result.Code, "access(self) let admin")
	assert.Contains(t, result.Code, "resource Vault: Provider & Receiver {")
	assert.Contains(t, result.Code, "view fun getBalance(): UFix64")
	assert.Contains(t, result.Code, "signer.storage.save(")

	assert.Equal(t, 5, result.ByCategory[domain.CategoryAccessModifier])
	assert.Equal(t, 1, result.ByCategory[domain.CategoryInterface])
	assert.Equal(t, 1, result.ByCategory[domain.CategoryStorage])
	assert.Equal(t, 1, result.ByCategory[domain.CategoryFunction])
	assert.Equal(t, 8, result.Total)
}

func TestTransformAll_Idempotent(t *testing.T) {
	tr := newTransformer(t)

	src := "pub resource Vault: Provider, Receiver {\n    pub fun getBalance(): UFix64 { return 1.0 }\n}\nsigner.save(<-v, to: /storage/v)"

	first := tr.TransformAll(src)
	second := tr.TransformAll(first.Code)

	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, 0, second.Total)
}

func TestTransformAll_ModernCodeUnchanged(t *testing.T) {
	tr := newTransformer(t)

	src := "access(all) contract Counter {\n    access(all) var count: Int\n\n    init() {\n        self.count = 0\n    }\n}"
	result := tr.TransformAll(src)

	assert.Equal(t, src, result.Code)
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.ByCategory)
}

func TestTransformAccessModifiers_SkipsCommentedLegacy(t *testing.T) {
	tr := newTransformer(t)

	got, n := tr.TransformAccessModifiers("// pub var legacyNote\npub var balance: UFix64")
	assert.Equal(t, "// pub var legacyNote\naccess(all) var balance: UFix64", got)
	assert.Equal(t, 1, n)
}

func TestTransformAll_CommentsAndStringsUntouched(t *testing.T) {
	tr := newTransformer(t)

	src := strings.Join([]string{
		"// pub var old",
		"access(all) contract Notes {",
		"    access(all) let hint: String",
		"",
		"    init() {",
		"        self.hint = \"use pub var for fields\"",
		"    }",
		"}",
	}, "\n")
	result := tr.TransformAll(src)

	assert.Equal(t, src, result.Code)
	assert.Equal(t, 0, result.Total)
}

func TestTransformAll_PreservesBracketBalance(t *testing.T) {
	tr := newTransformer(t)

	src := "pub contract Token {\n    pub fun getTotal(): Int {\n        return signer.load<Int>(from: /storage/total)!\n    }\n}"
	result := tr.TransformAll(src)

	for _, pair := range [][2]string{{"(", ")"}, {"{", "}"}, {"[", "]"}} {
		srcDelta := strings.Count(src, pair[0]) - strings.Count(src, pair[1])
		gotDelta := strings.Count(result.Code, pair[0]) - strings.Count(result.Code, pair[1])
		assert.Equal(t, srcDelta, gotDelta, "open/close balance for %s%s must be preserved", pair[0], pair[1])
	}
}

func TestNew_RejectsBrokenRule(t *testing.T) {
	reg := rules.NewRegistry(domain.DefaultConfig())
	reg.AddTransformationRule(domain.TransformationRule{
		Pattern:     `[`,
		Replacement: "x",
		Description: "broken",
		Category:    domain.CategoryImport,
	})

	_, err := transform.New(reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}
