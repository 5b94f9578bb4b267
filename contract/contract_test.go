package contract

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func abiOf(names ...string) ABI {
	abi := make(ABI, 0, len(names))
	for _, n := range names {
		abi = append(abi, Entry{Type: "function", Name: n})
	}
	return abi
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		abi      ABI
		expected string
	}{
		{"erc721 via tokenURI", abiOf("balanceOf", "transfer", "approve", "tokenURI"), "NFT (ERC-721)"},
		{"erc721 via ownerOf", abiOf("balanceOf", "transfer", "approve", "ownerOf"), "NFT (ERC-721)"},
		{"erc1155 via balanceOfBatch", abiOf("balanceOf", "transfer", "approve", "balanceOfBatch"), "Multi-Token (ERC-1155)"},
		{"erc1155 via safeBatchTransferFrom", abiOf("balanceOf", "transfer", "approve", "safeBatchTransferFrom"), "Multi-Token (ERC-1155)"},
		{"erc721 wins over erc1155", abiOf("balanceOf", "transfer", "approve", "ownerOf", "balanceOfBatch"), "NFT (ERC-721)"},
		{"erc20", abiOf("balanceOf", "transfer", "approve"), "Token (ERC-20)"},
		{"staking", abiOf("stake", "withdraw"), "Staking"},
		{"governance", abiOf("propose", "castVote"), "Governance"},
		{"multisig", abiOf("submitTransaction", "confirmTransaction"), "Multisig Wallet"},
		{"token trio beats staking", abiOf("balanceOf", "transfer", "approve", "stake", "withdraw"), "Token (ERC-20)"},
		{"partial token falls through", abiOf("balanceOf", "transfer", "stake", "withdraw"), "Staking"},
		{"case insensitive", abiOf("BALANCEOF", "Transfer", "APPROVE"), "Token (ERC-20)"},
		{"empty", ABI{}, "Smart Contract"},
		{"nil", nil, "Smart Contract"},
		{"generic", abiOf("setGreeting", "greet"), "Smart Contract"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.abi).String())
		})
	}
}

func TestClassify_IgnoresEvents(t *testing.T) {
	abi := ABI{
		{Type: "event", Name: "stake"},
		{Type: "event", Name: "withdraw"},
	}
	assert.Equal(t, Generic, Classify(abi))
}

func TestClassify_UntypedEntriesAreFunctions(t *testing.T) {
	abi := ABI{{Name: "stake"}, {Name: "withdraw"}}
	assert.Equal(t, Staking, Classify(abi))
}

func TestParseABI_Array(t *testing.T) {
	data := []byte(`[
		{"type": "function", "name": "transfer", "inputs": [{"name": "to", "type": "address"}, {"name": "amount", "type": "uint256"}], "outputs": [{"name": "", "type": "bool"}], "stateMutability": "nonpayable"},
		{"type": "function", "name": "balanceOf", "inputs": [{"name": "owner", "type": "address"}], "stateMutability": "view"},
		{"type": "event", "name": "Transfer", "inputs": [{"name": "from", "type": "address", "indexed": true}], "anonymous": false},
		{"type": "constructor", "inputs": []}
	]`)

	abi, err := ParseABI(data)
	require.NoError(t, err)
	require.Len(t, abi, 4)

	assert.Equal(t, []string{"transfer", "balanceOf"}, abi.FunctionNames())
	assert.Equal(t, []string{"Transfer"}, abi.EventNames())
	assert.Equal(t, "transfer(address,uint256)", abi.Functions()[0].Signature())
	assert.False(t, abi.Functions()[0].IsView())
	assert.True(t, abi.Functions()[1].IsView())
	assert.True(t, abi.Events()[0].Inputs[0].Indexed)
}

func TestParseABI_Artifact(t *testing.T) {
	data := []byte(`{"contractName": "Vault", "bytecode": "0x6080", "abi": [{"type": "function", "name": "stake", "inputs": []}]}`)

	abi, err := ParseABI(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"stake"}, abi.FunctionNames())
}

func TestParseABI_Errors(t *testing.T) {
	for _, input := range []string{"", "   ", "null", `{"bytecode": "0x"}`, `[{"type": 1}]`} {
		_, err := ParseABI([]byte(input))
		assert.Error(t, err, input)
	}
}

func TestSignature_Tuple(t *testing.T) {
	e := Entry{
		Name: "submit",
		Inputs: []Param{
			{Type: "tuple[]", Components: []Param{{Type: "address"}, {Type: "uint256"}}},
			{Type: "bytes"},
		},
	}
	assert.Equal(t, "submit((address,uint256)[],bytes)", e.Signature())
}

func TestABIJSON(t *testing.T) {
	assert.Equal(t, "[]", ABI(nil).JSON())
	assert.Equal(t, `[{"type":"function","name":"stake"}]`, abiOf("stake").JSON())
}

func TestABIJSON_KeepsSourceFields(t *testing.T) {
	src := `[
		{"constant": true, "inputs": [], "name": "totalSupply", "outputs": [{"name": "", "type": "uint256"}], "payable": false, "type": "function"},
		{"inputs": [], "name": "ping", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
		{"anonymous": false, "inputs": [{"indexed": true, "name": "from", "type": "address"}], "name": "Transfer", "type": "event"}
	]`

	abi, err := ParseABI([]byte(src))
	require.NoError(t, err)

	var want bytes.Buffer
	require.NoError(t, json.Compact(&want, []byte(src)))
	assert.Equal(t, want.String(), abi.JSON())

	again, err := ParseABI([]byte(abi.JSON()))
	require.NoError(t, err)
	assert.Equal(t, abi.JSON(), again.JSON())
}

func TestIsView(t *testing.T) {
	abi, err := ParseABI([]byte(`[
		{"constant": true, "inputs": [], "name": "totalSupply", "type": "function"},
		{"constant": false, "inputs": [], "name": "mint", "type": "function"},
		{"inputs": [], "name": "version", "stateMutability": "pure", "type": "function"},
		{"constant": true, "inputs": [], "name": "poke", "stateMutability": "nonpayable", "type": "function"}
	]`))
	require.NoError(t, err)

	fns := abi.Functions()
	assert.True(t, fns[0].IsView())
	assert.False(t, fns[1].IsView())
	assert.True(t, fns[2].IsView())
	assert.False(t, fns[3].IsView())
}

func TestIsAddress(t *testing.T) {
	assert.True(t, IsAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"))
	assert.False(t, IsAddress("5FbDB2315678afecb367f032d93F642f64180aa3"))
	assert.False(t, IsAddress("0x5FbDB2315678afecb367f032d93F642f64180aa"))
	assert.False(t, IsAddress("0xZZbDB2315678afecb367f032d93F642f64180aa3"))
}
