package krakenspot

import "time"

const baseUrl = "https://api.kraken.com"
const publicPrefix = "/0/public/"
const privatePrefix = "/0/private/"

const (
	defaultTimeout     = 10 * time.Second
	contentTypeForm    = "application/x-www-form-urlencoded"
	maxErrorBodyLength = 512
)
