// tenantctl tareas de operación: migraciones y alta del super admin inicial.
//
// Uso:
//
//	tenantctl migrate up [count]
//	tenantctl migrate down <count>
//	tenantctl migrate status
//	tenantctl seed superadmin --email root@platform.com --password ...
package main

import (
	"os"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
