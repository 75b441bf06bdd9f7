package promote_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/promote/internal/promote"
)

func TestReplaceTokens(testInstance *testing.T) {
	identityReplacements := []promote.TokenReplacement{
		{Old: testPreviewIdentityConstant, New: testStableIdentityConstant},
		{Old: "react-one-preview", New: "react-one"},
	}

	testCases := []struct {
		name            string
		content         string
		expectedContent string
		expectedCount   int
	}{
		{
			name:            "identity_and_root_basename",
			content:         "# @proj/react-one-preview\nSee packages/react-one-preview/README.md\n",
			expectedContent: "# @proj/react-one\nSee packages/react-one/README.md\n",
			expectedCount:   2,
		},
		{
			name:            "longer_identity_left_alone",
			content:         "import '@proj/react-one-preview-extra';\n",
			expectedContent: "import '@proj/react-one-preview-extra';\n",
			expectedCount:   0,
		},
		{
			name:            "already_stable",
			content:         "import { One } from '@proj/react-one';\n",
			expectedContent: "import { One } from '@proj/react-one';\n",
			expectedCount:   0,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			updatedContent, replacementCount := promote.ReplaceTokens(testCase.content, identityReplacements)
			require.Equal(testInstance, testCase.expectedContent, updatedContent)
			require.Equal(testInstance, testCase.expectedCount, replacementCount)

			repeatedContent, repeatedCount := promote.ReplaceTokens(updatedContent, identityReplacements)
			require.Equal(testInstance, updatedContent, repeatedContent)
			require.Zero(testInstance, repeatedCount)
		})
	}
}

func TestRewriteImportSpecifiers(testInstance *testing.T) {
	testCases := []struct {
		name            string
		content         string
		newIdentity     string
		keepSubpath     bool
		expectedContent string
		expectedCount   int
	}{
		{
			name:            "subpath_kept_for_direct_consumers",
			content:         "import { One } from '@proj/react-one-preview';\nimport { oneStyles } from \"@proj/react-one-preview/styles\";\n",
			newIdentity:     testStableIdentityConstant,
			keepSubpath:     true,
			expectedContent: "import { One } from '@proj/react-one';\nimport { oneStyles } from \"@proj/react-one/styles\";\n",
			expectedCount:   2,
		},
		{
			name:            "subpath_dropped_for_suite_consumers",
			content:         "export * from '@proj/react-one-preview/styles';\nconst lazy = import('@proj/react-one-preview');\n",
			newIdentity:     testSuiteIdentityConstant,
			expectedContent: "export * from '@proj/react-components';\nconst lazy = import('@proj/react-components');\n",
			expectedCount:   2,
		},
		{
			name:            "blank_runs_collapsed",
			content:         "import { One } from  \t'@proj/react-one-preview';\n",
			newIdentity:     testStableIdentityConstant,
			keepSubpath:     true,
			expectedContent: "import { One } from '@proj/react-one';\n",
			expectedCount:   1,
		},
		{
			name:            "prose_and_lookalikes_untouched",
			content:         "// migrated from @proj/react-one-preview\nimport { Extra } from '@proj/react-one-preview-extra';\n",
			newIdentity:     testStableIdentityConstant,
			keepSubpath:     true,
			expectedContent: "// migrated from @proj/react-one-preview\nimport { Extra } from '@proj/react-one-preview-extra';\n",
			expectedCount:   0,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			updatedContent, replacementCount := promote.RewriteImportSpecifiers(testCase.content, testPreviewIdentityConstant, testCase.newIdentity, testCase.keepSubpath)
			require.Equal(testInstance, testCase.expectedContent, updatedContent)
			require.Equal(testInstance, testCase.expectedCount, replacementCount)
		})
	}
}
