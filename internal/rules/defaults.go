package rules

import "github.com/atlanticofertlog/cargo-docs/constants"

// Default returns the rule set used by the loading-order desk.
func Default() Rules {
	return Rules{
		Locator: LocatorRules{
			CustomerMarker:     "CLIENTE:",
			CityLabel:          "CIDADE",
			DeniedCities:       []string{"CONCEICAO DO JACUIPE", "JACUIPE"},
			LetterheadFragment: "CONCEICAO DO JACUIPE - BA. E-MAIL COMERCIAL@FERTIMAXI.COM.BR,",
			FragmentStop:       "TELEFONES",
		},
		Order: OrderRules{
			CustomerLabel:     "CLIENTE:",
			OrderNumberLabels: []string{"Nr. Pedido", "N°", "PIX"},
			PackageKeywords: []PackageKeyword{
				{Keyword: "SACO", Type: constants.PackageBagged},
				{Keyword: "BIG BAG", Type: constants.PackageBigBag},
				{Keyword: "GRANEL", Type: constants.PackageBulk},
			},
			PackagePrecedence: []PackageKeyword{
				{Keyword: "BIG BAG", Type: constants.PackageBigBag},
				{Keyword: "GRANEL", Type: constants.PackageBulk},
				{Keyword: "SACO", Type: constants.PackageBagged},
			},
		},
		Heringer: HeringerRules{
			ProductPrefix:         "FERTILIZANTE",
			CustomerSuffix:        "FILHO",
			DefaultPackageLabel:   "BAG 1000 KG",
			DeliveryCustomerLabel: "NOME DO CLIENTE PARA ENTREGA",
			BillingCustomerLabel:  "NOME DO CLIENTE DE FATURAMENTO POR EXTENSO",
			OrderLabel:            "ORDEM DE VENDA",
			QuantityLabel:         "QUANTIDADE",
			LoadingLabel:          "LOCAL DE CARREGAMENTO",
		},
		License: LicenseRules{
			NameLabel:       "NOME",
			AltNameLabel:    "1ª HABILITAÇÃO",
			CategoryLabel:   "CAT. HAB.",
			ValidCategories: []string{"AE", "AD", "AC", "AB", "E", "D", "C"},
			ValidityLabel:   "VÁLIDA EM TODO",
		},
		Registration: RegistrationRules{
			RenavamLabel:    "CÓDIGO RENAVAM",
			AxleLabel:       "EIXOS",
			BrandModelLabel: "MARCA / MODELO",
			LocationLabel:   "LOCAL",
			SpeciesLabel:    "ESPÉCIE / TIPO",
			Brands: []string{
				"ALFASTEEL", "ANTONINI", "CHARGER", "DAF", "ESTRADA", "FACCHINI",
				"FIAT", "FNV", "FORD", "GOTTI", "GUERRA", "HYUNDAI", "IDEROL",
				"IRMAOS CLARA", "IVECO", "KIA", "KRONE", "LIBRELATO", "MAN",
				"MARCOFRIO", "MERCEDES BENZ", "NAVISTAR", "NEW-G", "NOMA",
				"PASTRE", "PIKO", "RANDON", "RANDONSP", "REB KRONE", "RECRUSUL",
				"RODOFORTSA", "RODOLINEA", "ROSSETTI", "SAN MARINO", "SAO PEDRO",
				"SCANIA", "SCHIFFER", "SERRATO", "SR", "TECTRAN", "TRIELHT",
				"UNICARR", "VOLKSWAGEN", "VOLVO", "VW",
			},
			VehicleCategories: []CategoryRule{
				{Keywords: []string{"TRACAO CAMINHAO TRATOR", "CAMINHAO TRATOR"}, Category: constants.VehicleTractor},
				{Keywords: []string{"CARGA CAMINHAO"}, Category: constants.VehicleTruck},
				{Keywords: []string{"SEMI-REBOQUE"}, Category: constants.VehicleSemiTrailer},
			},
			BodyTypes: []BodyType{
				{Code: "01", Name: "ABERTA"},
				{Code: "02", Name: "FECHADA/BAÚ"},
				{Code: "03", Name: "GRANELEIRA"},
				{Code: "04", Name: "PORTA CONTAINER"},
				{Code: "05", Name: "SIDER"},
				{Code: "00", Name: "NÃO APLICÁVEL"},
			},
			BrandWindow:    7,
			LocationWindow: 7,
			SpeciesWindow:  10,
		},
		Carrier: CarrierRules{
			Label:     "RNTRC",
			MinDigits: 8,
		},
	}
}
