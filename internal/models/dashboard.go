package models

// Dashboard — сводка для главной страницы (GET /dashboard-data).
type Dashboard struct {
	TotalFamilies  int              `json:"totalFamilias"`
	BasketsMonth   int              `json:"cestasMes"`
	TotalPeople    int              `json:"totalPessoas"`
	BasketsInStock int              `json:"cestasEstoque"`
	LastDeliveries []RecentDelivery `json:"ultimasEntregas"`
}

type RecentDelivery struct {
	Date        string `json:"data"`
	Family      string `json:"familia"`
	Responsible string `json:"responsavel"`
	Quantity    int    `json:"quantidade"`
}
