package core

import "github.com/santiagomed/dapp/contract"

// Request is the input of one pipeline run: a deployed contract and an
// optional free-text requirement.
type Request struct {
	ABI     contract.ABI
	Address string
	Prompt  string
}

func NewRequest(abi contract.ABI, address, prompt string) *Request {
	return &Request{
		ABI:     abi,
		Address: address,
		Prompt:  prompt,
	}
}
