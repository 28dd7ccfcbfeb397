package pexels

type PhotoSource struct {
	Original  string `json:"original"`
	Large2x   string `json:"large2x"`
	Large     string `json:"large"`
	Medium    string `json:"medium"`
	Small     string `json:"small"`
	Portrait  string `json:"portrait"`
	Landscape string `json:"landscape"`
	Tiny      string `json:"tiny"`
}

type Photo struct {
	Id  int         `json:"id"`
	Src PhotoSource `json:"src"`
	Alt string      `json:"alt"`
}

type SearchResponse struct {
	Photos       []Photo `json:"photos"`
	TotalResults int     `json:"total_results"`
}
