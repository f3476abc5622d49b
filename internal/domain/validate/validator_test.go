package validate_test

import (
	"strings"
	"testing"

	"github.com/cadmod/cadmod/internal/domain"
	"github.com/cadmod/cadmod/internal/domain/rules"
	"github.com/cadmod/cadmod/internal/domain/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *validate.Validator {
	t.Helper()
	v, err := validate.New(rules.NewRegistry(domain.DefaultConfig()))
	require.NoError(t, err)
	return v
}

func TestCheckBrackets_Balanced(t *testing.T) {
	code := "access(all) fun run() {\n    let xs = [1, 2]\n}"
	assert.Empty(t, validate.CheckBrackets(code))
}

func TestCheckBrackets_SingleUnclosedBrace(t *testing.T) {
	code := "access(all) fun run() {\n    let total = 1\n"

	issues := validate.CheckBrackets(code)
	require.Len(t, issues, 1)
	assert.Equal(t, "unclosed '{'", issues[0].Message)
	assert.Equal(t, "error", issues[0].Severity)
	assert.Equal(t, 1, issues[0].Location.Line)
	assert.Equal(t, 23, issues[0].Location.Column)
}

func TestCheckBrackets_UnmatchedCloser(t *testing.T) {
	code := "fun f() { }\n}"

	issues := validate.CheckBrackets(code)
	require.Len(t, issues, 1)
	assert.Equal(t, "unmatched closing '}'", issues[0].Message)
	assert.Equal(t, 2, issues[0].Location.Line)
	assert.Equal(t, 1, issues[0].Location.Column)
}

func TestCheckBrackets_TypeMismatch(t *testing.T) {
	code := "let a = (1]"

	issues := validate.CheckBrackets(code)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "mismatched bracket")
}

func TestCheckBrackets_IgnoresCommentsAndStrings(t *testing.T) {
	code := "// unmatched { here\nlet s = \"also ( unmatched\"\n"
	assert.Empty(t, validate.CheckBrackets(code))
}

func TestCheckStatements_BareBinding(t *testing.T) {
	code := "var balance\nlet name: String = \"ok\""

	issues := validate.CheckStatements(code)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, `"balance"`)
	assert.Equal(t, "error", issues[0].Severity)
	assert.Equal(t, 1, issues[0].Location.Line)
}

func TestCheckStatements_DanglingExpression(t *testing.T) {
	code := "let total = a +\nlet done = 1"

	issues := validate.CheckStatements(code)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "mid-expression")
}

func TestCheckStatements_CleanCode(t *testing.T) {
	code := "let total: Int = a + b\nimport FungibleToken from \"FungibleToken\"\nemit Deposit(amount: 1.0)"
	assert.Empty(t, validate.CheckStatements(code))
}

func TestCheckStructure_BareDeclaration(t *testing.T) {
	code := "contract Foo {\n    init() {}\n}"

	issues := validate.CheckStructure(code)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "contract declaration missing access qualifier")
	assert.Equal(t, "error", issues[0].Severity)
}

func TestCheckStructure_ResourceWithoutDestroy(t *testing.T) {
	code := "access(all) resource Vault {\n    init() {}\n}"

	issues := validate.CheckStructure(code)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, `resource "Vault" defines no destroy handler`)
	assert.Equal(t, "warning", issues[0].Severity)
}

func TestCheckStructure_ResourceWithDestroy(t *testing.T) {
	code := "access(all) resource Vault {\n    init() {}\n    destroy() {\n        emit Destroyed()\n    }\n}"
	assert.Empty(t, validate.CheckStructure(code))
}

func TestCheckStructure_FieldOnlyContractWarnsOnMissingInit(t *testing.T) {
	code := "access(all) contract Holder {\n    access(all) var x: Int\n}"

	issues := validate.CheckStructure(code)
	require.Len(t, issues, 1)
	assert.Equal(t, "contract declares no initializer", issues[0].Message)
	assert.Equal(t, "warning", issues[0].Severity)
}

func TestCheckStructure_BehavioralContractErrorsOnMissingInit(t *testing.T) {
	code := "access(all) contract Runner {\n    access(all) fun go() {}\n}"

	issues := validate.CheckStructure(code)
	require.Len(t, issues, 1)
	assert.Equal(t, "contract declares no initializer", issues[0].Message)
	assert.Equal(t, "error", issues[0].Severity)
}

func TestCheckStructure_ContractInterfaceNeedsNoInit(t *testing.T) {
	code := "access(all) contract interface Minter {\n    access(all) fun mint(amount: UFix64): @AnyResource\n}"

	for _, issue := range validate.CheckStructure(code) {
		assert.NotEqual(t, "contract declares no initializer", issue.Message)
	}
}

func TestCheckFunctions_UnbalancedSignature(t *testing.T) {
	code := "fun broken(a: Int {\n}"

	issues := validate.CheckFunctions(code)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "unbalanced parentheses")
}

func TestCheckFunctions_MissingParameterList(t *testing.T) {
	code := "fun nothing {\n}"

	issues := validate.CheckFunctions(code)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "missing parameter list")
}

func TestCheckFunctions_MissingBody(t *testing.T) {
	code := "fun ghost()\nlet after = 1"

	issues := validate.CheckFunctions(code)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, `function "ghost" has no body`)
}

func TestCheckFunctions_ReturnWithoutReturnType(t *testing.T) {
	code := "fun answer() {\n    return 42\n}"

	issues := validate.CheckFunctions(code)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "declares no return type")
}

func TestCheckFunctions_ReturnTypeDeclared(t *testing.T) {
	code := "fun answer(): Int {\n    return 42\n}"
	assert.Empty(t, validate.CheckFunctions(code))
}

func TestCheckFunctions_SingleLineBodyWithCall(t *testing.T) {
	code := "access(all) fun getFoo(): Int { return bar() }"
	assert.Empty(t, validate.CheckFunctions(code))
}

func TestCheckFunctions_LifecycleExempt(t *testing.T) {
	code := "fun init() {\n    return self.x\n}"
	assert.Empty(t, validate.CheckFunctions(code))
}

func TestCheckEvents_Valid(t *testing.T) {
	code := "access(all) event Transfer(amount: UFix64, to: Address)"
	assert.Empty(t, validate.CheckEvents(code))
}

func TestCheckEvents_CompositeParameterTypes(t *testing.T) {
	code := "access(all) event Batch(ids: [UInt64], owner: Address?, kind: Token.Kind)"
	assert.Empty(t, validate.CheckEvents(code))
}

func TestCheckEvents_WrappedParameterList(t *testing.T) {
	code := "access(all) event Transfer(\n    from: Address,\n    to: Address\n)"
	assert.Empty(t, validate.CheckEvents(code))
}

func TestCheckEvents_MissingQualifier(t *testing.T) {
	code := "event Orphan(x: Int)"

	issues := validate.CheckEvents(code)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "missing access qualifier")
}

func TestCheckEvents_MissingParameterList(t *testing.T) {
	code := "access(all) event Bare"

	issues := validate.CheckEvents(code)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "without a parameter list")
}

func TestCheckEvents_MalformedParameter(t *testing.T) {
	code := "access(all) event Bad(justAName)"

	issues := validate.CheckEvents(code)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "not in name: Type form")
}

func TestCheckEvents_UnrecognizedType(t *testing.T) {
	code := "access(all) event Odd(x: lowercase)"

	issues := validate.CheckEvents(code)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "unrecognized type")
}

func TestCheckStyle_SpaceBeforeCall(t *testing.T) {
	code := "doStuff ()"

	issues := validate.CheckStyle(code)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "call parentheses")
	assert.Equal(t, "warning", issues[0].Severity)
}

func TestCheckStyle_ControlKeywordsExempt(t *testing.T) {
	code := "if (ready) {\n    run()\n}"
	assert.Empty(t, validate.CheckStyle(code))
}

func TestCheckStyle_TightOperator(t *testing.T) {
	code := "let x = a+b"

	issues := validate.CheckStyle(code)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "surrounded by spaces")
}

func TestCheckStyle_StoragePathNotAnOperator(t *testing.T) {
	code := "let path = /storage/vault"
	assert.Empty(t, validate.CheckStyle(code))
}

func TestCheckStyle_FunctionNameCasing(t *testing.T) {
	code := "fun Mint_Token() {}"

	issues := validate.CheckStyle(code)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "not lowerCamelCase")
}

func TestCheckStyle_MoveWithoutDestroy(t *testing.T) {
	code := "let v <- create Vault()"

	issues := validate.CheckStyle(code)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "no destroy call nearby")
}

func TestCheckStyle_MovePairedWithDestroy(t *testing.T) {
	code := "let v <- create Vault()\ndestroy v"
	assert.Empty(t, validate.CheckStyle(code))
}

func TestValidateCode_ModernContractIsValid(t *testing.T) {
	v := newValidator(t)

	code := strings.Join([]string{
		"access(all) contract Counter {",
		"    access(all) var count: Int",
		"",
		"    init() {",
		"        self.count = 0",
		"    }",
		"}",
	}, "\n")

	result := v.ValidateCode(code, validate.Options{})
	assert.True(t, result.IsValid, "errors: %v", result.Errors)
	assert.True(t, result.CompilationSuccess)
	assert.Empty(t, result.Errors)
}

func TestValidateCode_LegacyPatternIsError(t *testing.T) {
	v := newValidator(t)

	result := v.ValidateCode("access(all) contract C {\n    pub var x: Int\n\n    init() {}\n}", validate.Options{})
	assert.False(t, result.IsValid)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "2:")
	assert.Contains(t, result.Errors[0], "Legacy pub access modifier")
}

func TestValidateCode_StrictPromotesWarnings(t *testing.T) {
	v := newValidator(t)

	code := "let x = a+b"
	lenient := v.ValidateCode(code, validate.Options{})
	assert.True(t, lenient.IsValid)
	assert.NotEmpty(t, lenient.Warnings)

	strict := v.ValidateCode(code, validate.Options{Strict: true})
	assert.False(t, strict.IsValid)
}

func TestValidateCode_CompilationSuccessIgnoresStructuralIssues(t *testing.T) {
	v := newValidator(t)

	// Behavioral contract without init: structurally invalid, but the
	// brackets and statements are fine.
	result := v.ValidateCode("access(all) contract R {\n    access(all) fun go() {}\n}", validate.Options{})
	assert.False(t, result.IsValid)
	assert.True(t, result.CompilationSuccess)
}

func TestShouldRejectCode_LegacyModifier(t *testing.T) {
	v := newValidator(t)

	rejection := v.ShouldRejectCode("pub fun transfer() {}")
	assert.True(t, rejection.ShouldReject)
	assert.Equal(t, "Legacy pub access modifier", rejection.Reason)
}

func TestShouldRejectCode_LegacyStorage(t *testing.T) {
	v := newValidator(t)

	rejection := v.ShouldRejectCode("account.save(<-v, to: /storage/v)")
	assert.True(t, rejection.ShouldReject)
	assert.Equal(t, "Legacy flat storage API call", rejection.Reason)
}

func TestShouldRejectCode_ModernCodePasses(t *testing.T) {
	v := newValidator(t)

	rejection := v.ShouldRejectCode("access(all) fun transfer() {}")
	assert.False(t, rejection.ShouldReject)
	assert.Empty(t, rejection.Reason)
}

func TestShouldRejectCode_CommentedLegacyIgnored(t *testing.T) {
	v := newValidator(t)

	rejection := v.ShouldRejectCode("// pub var was the old spelling\naccess(all) var x: Int")
	assert.False(t, rejection.ShouldReject)
}

func TestValidateSyntax_DecomposedResult(t *testing.T) {
	v := newValidator(t)

	code := "contract Foo {\n    fun Run_Now() {\n        return 1\n"
	result := v.ValidateSyntax(code)

	assert.NotEmpty(t, result.BracketErrors)
	assert.NotEmpty(t, result.StructuralIssues)
	assert.NotEmpty(t, result.FunctionIssues)
	assert.NotEmpty(t, result.StyleWarnings)
	assert.False(t, result.IsValid())
}
