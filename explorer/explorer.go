package explorer

import "fmt"

// Known network explorer hosts.
var hosts = map[string]string{
	"mainnet": "https://cardanoscan.io",
	"preprod": "https://preprod.cardanoscan.io",
	"preview": "https://preview.cardanoscan.io",
}

// TxURL returns a human-navigable explorer URL for a transaction hash on the
// given network. Unknown networks use the subdomain pattern.
func TxURL(network, txHash string) string {
	host, ok := hosts[network]
	if !ok {
		host = fmt.Sprintf("https://%s.cardanoscan.io", network)
	}
	return fmt.Sprintf("%s/transaction/%s", host, txHash)
}
