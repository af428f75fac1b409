package ascii

// GetASCIIArt returns the storeadmin logo
func GetASCIIArt() string {
	return `
     _                            _           _
 ___| |_ ___  _ __ ___  __ _  __| |_ __ ___ (_)_ __
/ __| __/ _ \| '__/ _ \/ _' |/ _' | '_ ' _ \| | '_ \
\__ \ || (_) | | |  __/ (_| | (_| | | | | | | | | | |
|___/\__\___/|_|  \___|\__,_|\__,_|_| |_| |_|_|_| |_|
`
}
