package types

type RootResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type NetworkStatus struct {
	Status      string `json:"status"`
	ChainID     string `json:"chainId"`
	LatestBlock string `json:"ultimoBloque"`
	GasPrice    string `json:"precioGas"`
}

type TotalSupply struct {
	TotalSupply    string `json:"totalSupply"`
	TotalSupplyRaw string `json:"totalSupplyRaw"`
}

type TokenBalance struct {
	Address    string `json:"address"`
	Balance    string `json:"balance"`
	BalanceRaw string `json:"balanceRaw"`
}

type AchievementBalance struct {
	Address  string `json:"address"`
	NftCount string `json:"nftCount"`
}

type AchievementOwner struct {
	TokenID string `json:"tokenId"`
	Owner   string `json:"owner"`
}

type TransactionHistory struct {
	Transactions []WriteRecord `json:"transactions"`
}
