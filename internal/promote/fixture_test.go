package promote_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/promote/internal/promote"
	"github.com/temirov/promote/internal/stagedtree"
	"github.com/temirov/promote/internal/workspace"
)

const (
	testPreviewIdentityConstant   = "@proj/react-one-preview"
	testStableIdentityConstant    = "@proj/react-one"
	testPreviewRootConstant       = "packages/react-one-preview"
	testStableRootConstant        = "packages/react-one"
	testSuiteIdentityConstant     = "@proj/react-components"
	testDocsiteIdentityConstant   = "@proj/public-docsite-v9"
	testVRTestsIdentityConstant   = "@proj/vr-tests-react-components"
	testUnrelatedIdentityConstant = "@proj/react-unrelated"
	testUnreleasedPreviewConstant = "@proj/react-two-preview"
	testBaseTableConstant         = "tsconfig.base.json"
	testAllTableConstant          = "tsconfig.base.all.json"
	testOwnershipFileConstant     = ".github/CODEOWNERS"
	testUnrelatedIndexConstant    = "// Layout borrowed from @proj/react-one-preview before it shipped.\nexport const unrelated = '@proj/react-one-preview';\n"
)

func newTestWorkspaceFiles() map[string]string {
	return map[string]string{
		"packages/react-one-preview/project.json":                    `{"name":"@proj/react-one-preview","sourceRoot":"packages/react-one-preview/src","projectType":"library","tags":["vNext","platform:web"]}`,
		"packages/react-one-preview/package.json":                    `{"name":"@proj/react-one-preview","version":"0.12.33","dependencies":{"@proj/react-button":"^9.0.0"}}`,
		"packages/react-one-preview/src/index.ts":                    "export { One, renderOne_unstable } from './components/One';\nexport type { OneProps, OneState } from './components/One';\n",
		"packages/react-one-preview/src/components/One.tsx":          "export const One = () => null;\nexport const renderOne_unstable = () => null;\n",
		"packages/react-one-preview/stories/One.stories.tsx":         "import { One } from '@proj/react-one-preview';\n\nexport default { title: 'Preview Components/One' };\n",
		"packages/react-one-preview/README.md":                       "# @proj/react-one-preview\n\nInstall `@proj/react-one-preview` to use One.\n",
		"packages/react-one-preview/etc/react-one-preview.api.md":    "## API Report File for \"@proj/react-one-preview\"\n\n```ts\nexport const One: () => null;\n```\n",
		"packages/react-button/project.json":                         `{"name":"@proj/react-button","sourceRoot":"packages/react-button/src","projectType":"library"}`,
		"packages/react-button/package.json":                         `{"name":"@proj/react-button","version":"9.3.0"}`,
		"packages/react-button/src/index.ts":                         "export { Button } from './Button';\nexport type { ButtonProps } from './Button';\n",
		"packages/react-components/project.json":                     `{"name":"@proj/react-components","sourceRoot":"packages/react-components/src","projectType":"library"}`,
		"packages/react-components/package.json":                     `{"name":"@proj/react-components","version":"9.1.0","dependencies":{"@proj/react-button":"^9.3.0"}}`,
		"packages/react-components/src/index.ts":                     "export { Button } from '@proj/react-button';\nexport type { ButtonProps } from '@proj/react-button';\n",
		"apps/public-docsite-v9/project.json":                        `{"name":"@proj/public-docsite-v9","projectType":"application"}`,
		"apps/public-docsite-v9/package.json":                        `{"name":"@proj/public-docsite-v9","version":"1.0.0","dependencies":{"@proj/react-components":"^9.1.0","@proj/react-one-preview":"*"}}`,
		"apps/public-docsite-v9/src/OneExample.tsx":                  "import { One } from  '@proj/react-one-preview';\nimport { oneStyles } from '@proj/react-one-preview/styles';\n",
		"apps/vr-tests-react-components/project.json":                `{"name":"@proj/vr-tests-react-components","projectType":"application","tags":["vr-tests"]}`,
		"apps/vr-tests-react-components/package.json":                `{"name":"@proj/vr-tests-react-components","version":"9.0.0","dependencies":{"@proj/react-one-preview":"0.12.33"}}`,
		"apps/vr-tests-react-components/src/stories/One.stories.tsx": "import { One } from '@proj/react-one-preview';\nimport { oneStyles } from '@proj/react-one-preview/styles';\n",
		"packages/react-unrelated/project.json":                      `{"name":"@proj/react-unrelated","projectType":"library"}`,
		"packages/react-unrelated/package.json":                      `{"name":"@proj/react-unrelated","version":"9.0.0"}`,
		"packages/react-unrelated/src/index.ts":                      testUnrelatedIndexConstant,
		"packages/react-two-preview/project.json":                    `{"name":"@proj/react-two-preview","sourceRoot":"packages/react-two-preview/src","projectType":"library"}`,
		"packages/react-two-preview/package.json":                    `{"name":"@proj/react-two-preview","version":"0.0.0","private":true}`,
		"packages/react-two-preview/src/index.ts":                    "export { Two } from './Two';\n",
		testBaseTableConstant:                                        `{"compilerOptions":{"baseUrl":".","paths":{"@proj/react-button":["packages/react-button/src/index.ts"],"@proj/react-one-preview":["packages/react-one-preview/src/index.ts"]}}}`,
		testAllTableConstant:                                         `{"compilerOptions":{"paths":{"@proj/react-button":["packages/react-button/src/index.ts"],"@proj/react-one-preview":["./packages/react-one-preview/src/index.ts"]}}}`,
		testOwnershipFileConstant:                                    "# Package owners\npackages/react-button @proj/button-team\n/packages/react-one-preview/ @proj/one-team @proj/docs-team\n",
	}
}

func newTestConfiguration() promote.Configuration {
	configuration := promote.DefaultConfiguration()
	configuration.SuitePackage = testSuiteIdentityConstant
	configuration.DocsitePackages = []string{testDocsiteIdentityConstant}
	configuration.DirectConsumerPackages = nil
	configuration.DirectConsumerTags = []string{"vr-tests"}
	return configuration
}

func requireManifest(testInstance *testing.T, tree workspace.Tree, manifestPath string) *workspace.Manifest {
	testInstance.Helper()
	manifest, readError := workspace.ReadManifest(tree, manifestPath)
	require.NoError(testInstance, readError)
	return manifest
}

func requireText(testInstance *testing.T, tree *stagedtree.Tree, filePath string) string {
	testInstance.Helper()
	content, readError := tree.ReadText(filePath)
	require.NoError(testInstance, readError)
	return content
}
