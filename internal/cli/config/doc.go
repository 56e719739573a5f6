// Package config defines the smsauth-cli configuration (~/.smsauth/cli.yaml).
//
// Example:
//
//	server: https://sms.example.edu/api
//	timeout: 30s
//	output: table
//	log:
//	  level: warn
//	  format: text
//	token:
//	  store: file          # file | badger | memory
//	  path: ~/.smsauth/token.json
//	  passphrase: ""       # seals the token file when set
//	tls:
//	  ca_file: /etc/sms/ca.pem
//	dev_mode: false        # honoured only by smsdev builds
//	metrics:
//	  textfile: ""         # write Prometheus metrics here on exit
package config
