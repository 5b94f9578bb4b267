package contract

import "strings"

// Kind is the heuristic shape of a contract, used to steer prompts.
type Kind int

const (
	Generic Kind = iota
	ERC20
	ERC721
	ERC1155
	Staking
	Governance
	Multisig
)

var kindLabels = map[Kind]string{
	Generic:    "Smart Contract",
	ERC20:      "Token (ERC-20)",
	ERC721:     "NFT (ERC-721)",
	ERC1155:    "Multi-Token (ERC-1155)",
	Staking:    "Staking",
	Governance: "Governance",
	Multisig:   "Multisig Wallet",
}

func (k Kind) String() string {
	if label, ok := kindLabels[k]; ok {
		return label
	}
	return kindLabels[Generic]
}

// Classify labels the contract from its function names. First match wins:
// ERC-721 and ERC-1155 expose a superset of the ERC-20 trio, so they are
// checked inside that branch.
func Classify(abi ABI) Kind {
	fns := make(map[string]bool)
	for _, e := range abi.Functions() {
		fns[strings.ToLower(e.Name)] = true
	}
	has := func(names ...string) bool {
		for _, n := range names {
			if !fns[n] {
				return false
			}
		}
		return true
	}

	switch {
	case has("balanceof", "transfer", "approve"):
		switch {
		case fns["tokenuri"] || fns["ownerof"]:
			return ERC721
		case fns["balanceofbatch"] || fns["safebatchtransferfrom"]:
			return ERC1155
		default:
			return ERC20
		}
	case has("stake", "withdraw"):
		return Staking
	case has("propose", "castvote"):
		return Governance
	case has("submittransaction", "confirmtransaction"):
		return Multisig
	default:
		return Generic
	}
}
