package main

import "parkledger/backend/services/ledger-service/cmd/ledgerctl/cmd"

func main() {
	cmd.Execute()
}
