package catalog

import "encoding/json"

// unavailableProduct extracts the product id from an error body, if the catalog sent one
func unavailableProduct(body string) string {
	var parsed unavailableBody
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return ""
	}
	return parsed.ProductID
}
