package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanSource(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "jsx fence",
			input:    "```jsx\nfunction App() {}\n```",
			expected: "function App() {}",
		},
		{
			name:     "bare fence",
			input:    "```\nfunction App() {}\n```\n",
			expected: "function App() {}",
		},
		{
			name:     "typescript fence",
			input:    "```typescript\nconst a = 1;\n```",
			expected: "const a = 1;",
		},
		{
			name:     "named imports",
			input:    "import { useState, useEffect } from 'react';\nimport React, { useMemo } from \"react\"\nconst a = 1;",
			expected: "const a = 1;",
		},
		{
			name:     "multi-line named import",
			input:    "import {\n  useReadContract,\n  useWriteContract,\n} from 'wagmi';\nconst a = 1;",
			expected: "const a = 1;",
		},
		{
			name:     "default and namespace imports",
			input:    "import React from 'react';\nimport * as ethers from 'ethers';\nconst a = 1;",
			expected: "const a = 1;",
		},
		{
			name:     "side effect import",
			input:    "import './index.css';\nconst a = 1;",
			expected: "const a = 1;",
		},
		{
			name:     "exports",
			input:    "export default function App() {}\nexport const x = 1;\n  export function y() {}",
			expected: "function App() {}\nconst x = 1;\n  function y() {}",
		},
		{
			name:     "blank runs",
			input:    "a\n\n\n\nb\n \n\t\n\nc\n\nd",
			expected: "a\n\nb\n\nc\n\nd",
		},
		{
			name:     "import mid-line kept",
			input:    "const s = \"import x from 'y'\";",
			expected: "const s = \"import x from 'y'\";",
		},
		{
			name:     "everything",
			input:    "Here is the app:\n```jsx\nimport React, { useState } from 'react';\nimport { motion } from 'framer-motion';\n\n\n\nconst CONTRACT_ADDRESS = '0x1';\n\nexport default function App() {\n  return null;\n}\n```",
			expected: "Here is the app:\n\nconst CONTRACT_ADDRESS = '0x1';\n\nfunction App() {\n  return null;\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanSource(tt.input))
		})
	}
}

func TestCleanSource_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"   \n\n  ",
		"```jsx\nexport default function App() {}\n```",
		"export import React from 'react';\nconst a = 1;",
		"``````js\nx\n````",
		"a\r\n\r\n\r\n\r\nb",
		"import {\n a } from 'b'\n\n\n\nexport export const c = 1\n```react\n",
		"```tsx\nimport x from 'y'\n```\n\n\n```\nexport default App;\n```",
	}

	for _, input := range inputs {
		once := CleanSource(input)
		assert.Equal(t, once, CleanSource(once), input)
	}
}
