package ticker

import "stockprovider/internal/provider"

// Asset is an entry of the local B3 catalog.
type Asset struct {
	Ticker string
	Name   string
	Type   provider.AssetType
}

// Stocks lists well-known B3 stocks in lookup order.
var Stocks = []Asset{
	{"PETR4", "Petrobras", provider.AssetStock},
	{"VALE3", "Vale", provider.AssetStock},
	{"ITUB4", "Itaú Unibanco", provider.AssetStock},
	{"BBDC4", "Bradesco", provider.AssetStock},
	{"ABEV3", "Ambev", provider.AssetStock},
	{"WEGE3", "Weg", provider.AssetStock},
	{"RENT3", "Localiza", provider.AssetStock},
	{"SUZB3", "Suzano", provider.AssetStock},
	{"RADL3", "Raia Drogasil", provider.AssetStock},
	{"ELET3", "Eletrobras", provider.AssetStock},
	{"BBAS3", "Banco do Brasil", provider.AssetStock},
	{"SANB11", "Santander", provider.AssetStock},
	{"CMIG4", "Cemig", provider.AssetStock},
	{"EMBR3", "Embraer", provider.AssetStock},
	{"VIVT3", "Telefônica Brasil", provider.AssetStock},
	{"KLBN11", "Klabin", provider.AssetStock},
	{"UGPA3", "Ultrapar", provider.AssetStock},
	{"CCRO3", "CCR", provider.AssetStock},
	{"CYRE3", "Cyrela", provider.AssetStock},
	{"EGIE3", "Engie Brasil", provider.AssetStock},
	{"FLRY3", "Fleury", provider.AssetStock},
	{"GGBR4", "Gerdau", provider.AssetStock},
	{"HYPE3", "Hypera", provider.AssetStock},
	{"JBSS3", "JBS", provider.AssetStock},
	{"LREN3", "Lojas Renner", provider.AssetStock},
	{"MULT3", "Multiplan", provider.AssetStock},
	{"PCAR3", "Companhia Brasileira de Distribuição", provider.AssetStock},
	{"QUAL3", "Qualicorp", provider.AssetStock},
	{"RAIL3", "Rumo", provider.AssetStock},
	{"SBSP3", "Sabesp", provider.AssetStock},
	{"USIM5", "Usinas Siderúrgicas", provider.AssetStock},
}

// FIIs lists well-known real-estate investment funds in lookup order.
var FIIs = []Asset{
	{"HGLG11", "CSHG Logística", provider.AssetFII},
	{"XPLG11", "XP Log", provider.AssetFII},
	{"VISC11", "Vinci Shopping Centers", provider.AssetFII},
	{"BRCR11", "BTG Pactual Corporate", provider.AssetFII},
	{"HGRU11", "CSHG Recebíveis Imobiliários", provider.AssetFII},
	{"XPML11", "XP Malls", provider.AssetFII},
	{"KNRI11", "Kinea Renda Imobiliária", provider.AssetFII},
	{"HFOF11", "Hedge Top FOFII", provider.AssetFII},
	{"VILG11", "Vinci Logística", provider.AssetFII},
	{"BTLG11", "BTG Pactual Logística", provider.AssetFII},
	{"HGCR11", "CSHG Real Estate", provider.AssetFII},
	{"XPIN11", "XP Industrial", provider.AssetFII},
	{"RBRF11", "RBR Desenvolvimento", provider.AssetFII},
	{"HCTR11", "Hectare CE", provider.AssetFII},
	{"KNIP11", "Kinea Índices de Preços", provider.AssetFII},
}

var (
	knownStocks = index(Stocks)
	knownFIIs   = index(FIIs)
)

func index(assets []Asset) map[string]Asset {
	m := make(map[string]Asset, len(assets))
	for _, a := range assets {
		m[a.Ticker] = a
	}
	return m
}

// Lookup returns the catalog entry for t, if any.
func Lookup(t string) (Asset, bool) {
	t = Normalize(t)
	if a, ok := knownFIIs[t]; ok {
		return a, true
	}
	a, ok := knownStocks[t]
	return a, ok
}
