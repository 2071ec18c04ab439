package chain

// ProfeCoinABI is the interface of the ProfeCoin (PFC) ERC-20 contract. It is
// used when no hardhat artifact path is configured.
const ProfeCoinABI = `[
	{
		"inputs": [{"internalType": "address", "name": "initialOwner", "type": "address"}],
		"stateMutability": "nonpayable",
		"type": "constructor"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true,  "internalType": "address", "name": "from",  "type": "address"},
			{"indexed": true,  "internalType": "address", "name": "to",    "type": "address"},
			{"indexed": false, "internalType": "uint256", "name": "value", "type": "uint256"}
		],
		"name": "Transfer",
		"type": "event"
	},
	{
		"inputs": [
			{"internalType": "address", "name": "to",     "type": "address"},
			{"internalType": "uint256", "name": "amount", "type": "uint256"}
		],
		"name": "mint",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "totalSupply",
		"outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"internalType": "address", "name": "account", "type": "address"}],
		"name": "balanceOf",
		"outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "decimals",
		"outputs": [{"internalType": "uint8", "name": "", "type": "uint8"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "owner",
		"outputs": [{"internalType": "address", "name": "", "type": "address"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

// LogroNFTABI is the interface of the LogroNFT achievement contract.
const LogroNFTABI = `[
	{
		"inputs": [{"internalType": "address", "name": "initialOwner", "type": "address"}],
		"stateMutability": "nonpayable",
		"type": "constructor"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true,  "internalType": "address", "name": "student",  "type": "address"},
			{"indexed": true,  "internalType": "uint256", "name": "tokenId",  "type": "uint256"},
			{"indexed": false, "internalType": "string",  "name": "tokenURI", "type": "string"}
		],
		"name": "AchievementAwarded",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "internalType": "address", "name": "from",    "type": "address"},
			{"indexed": true, "internalType": "address", "name": "to",      "type": "address"},
			{"indexed": true, "internalType": "uint256", "name": "tokenId", "type": "uint256"}
		],
		"name": "Transfer",
		"type": "event"
	},
	{
		"inputs": [
			{"internalType": "address", "name": "student",  "type": "address"},
			{"internalType": "string",  "name": "tokenURI", "type": "string"}
		],
		"name": "awardAchievement",
		"outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "uint256", "name": "tokenId",     "type": "uint256"},
			{"internalType": "string",  "name": "newTokenURI", "type": "string"}
		],
		"name": "updateAchievementURI",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [{"internalType": "address", "name": "owner", "type": "address"}],
		"name": "balanceOf",
		"outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"internalType": "uint256", "name": "tokenId", "type": "uint256"}],
		"name": "ownerOf",
		"outputs": [{"internalType": "address", "name": "", "type": "address"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"internalType": "uint256", "name": "tokenId", "type": "uint256"}],
		"name": "tokenURI",
		"outputs": [{"internalType": "string", "name": "", "type": "string"}],
		"stateMutability": "view",
		"type": "function"
	}
]`
