package promote_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/promote/internal/promote"
)

func TestParseExportSurface(testInstance *testing.T) {
	testCases := []struct {
		name             string
		content          string
		expectedValues   []string
		expectedTypes    []string
		expectedWildcard bool
	}{
		{
			name:    "re_export_statements",
			content: `// export { Commented } from './Commented';
export { One, renderOne_unstable as renderOne } from './components/One';
export type { OneProps, OneState } from './components/One';
export { type OneSlots, useOne_unstable } from './components/One';
export * as oneTokens from './tokens';
export * from './styles';
export { default } from './components/One';
/* export { Hidden } from './Hidden'; */
`,
			expectedValues:   []string{"One", "renderOne", "useOne_unstable", "oneTokens"},
			expectedTypes:    []string{"OneProps", "OneState", "OneSlots"},
			expectedWildcard: true,
		},
		{
			name:           "exported_declarations",
			content:        "export { One } from './One';\nexport const oneToken = 1;\nexport function useOne() {}\nexport interface OneOptions {}\nexport type OneSize = 'small';\n",
			expectedValues: []string{"One", "oneToken", "useOne"},
			expectedTypes:  []string{"OneOptions", "OneSize"},
		},
		{
			name:           "declaration_keywords",
			content:        "export async function loadOne() {}\nexport class OneStore {}\nexport abstract class OneBase {}\nexport const enum OneMode { Light }\nexport enum OneShape { Round }\nexport let oneCounter = 0;\nexport declare const oneGlobal: string;\nexport function* iterateOne() {}\nexport default function renderDefault() {}\n",
			expectedValues: []string{"loadOne", "OneStore", "OneBase", "OneMode", "OneShape", "oneCounter", "oneGlobal", "iterateOne"},
		},
		{
			name:           "declarations_interleaved_with_re_exports",
			content:        "export type OneSize = 'small';\nexport { Two, type TwoProps } from './Two';\nexport const one = 1;\n// export const commented = 2;\n",
			expectedValues: []string{"Two", "one"},
			expectedTypes:  []string{"OneSize", "TwoProps"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			surface := promote.ParseExportSurface(testCase.content)
			require.Equal(testInstance, testCase.expectedValues, surface.Values)
			require.Equal(testInstance, testCase.expectedTypes, surface.Types)
			require.Equal(testInstance, testCase.expectedWildcard, surface.Wildcard)
			require.False(testInstance, surface.Empty())
		})
	}

	require.True(testInstance, promote.ParseExportSurface("const local = 1;\n").Empty())
}

func TestMergeReExports(testInstance *testing.T) {
	surface := promote.ExportSurface{Values: []string{"One", "renderOne_unstable"}, Types: []string{"OneProps"}}

	testCases := []struct {
		name            string
		content         string
		expectedContent string
		expectedChanged bool
	}{
		{
			name:            "appended_statements",
			content:         "export { Button } from '@proj/react-button';",
			expectedContent: "export { Button } from '@proj/react-button';\nexport { One, renderOne_unstable } from '@proj/react-one';\nexport type { OneProps } from '@proj/react-one';\n",
			expectedChanged: true,
		},
		{
			name:            "merged_into_existing_statement",
			content:         "export { One } from \"@proj/react-one\";\nexport type { OneProps } from \"@proj/react-one\";\n",
			expectedContent: "export { One, renderOne_unstable } from \"@proj/react-one\";\nexport type { OneProps } from \"@proj/react-one\";\n",
			expectedChanged: true,
		},
		{
			name:            "already_exported",
			content:         "export { One, renderOne_unstable } from '@proj/react-one';\nexport type { OneProps } from '@proj/react-one';\n",
			expectedContent: "export { One, renderOne_unstable } from '@proj/react-one';\nexport type { OneProps } from '@proj/react-one';\n",
			expectedChanged: false,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			mergedContent, changed := promote.MergeReExports(testCase.content, testStableIdentityConstant, surface)
			require.Equal(testInstance, testCase.expectedContent, mergedContent)
			require.Equal(testInstance, testCase.expectedChanged, changed)
		})
	}

	wildcardContent, wildcardChanged := promote.MergeReExports("", testStableIdentityConstant, promote.ExportSurface{Wildcard: true})
	require.True(testInstance, wildcardChanged)
	require.Equal(testInstance, "export * from '@proj/react-one';\n", wildcardContent)
}
