package engine

import (
	"fmt"

	"github.com/alphadb-io/alphadb-go/internal/emit"
)

// createConfigTableDDL renders the config table definition from
// spec.md §3: (db VARCHAR(100) PRIMARY KEY, version VARCHAR(50) NOT
// NULL, template VARCHAR(50) NULL).
func createConfigTableDDL(dialect emit.Dialect) string {
	query := fmt.Sprintf(" CREATE TABLE %s (", configTable)
	query += " db VARCHAR(100) PRIMARY KEY, version VARCHAR(50) NOT NULL, template VARCHAR(50)"
	if dialect == emit.MySQL {
		query += " ) ENGINE = InnoDB;"
	} else {
		query += " );"
	}
	return query
}

func insertConfigRowDML(dbName string) string {
	return fmt.Sprintf(" INSERT INTO %s (db, version, template) VALUES (%s, %s, NULL);",
		configTable, quote(dbName), quote("0.0.0"))
}

func selectConfigRowDML(table, dbName string) string {
	return fmt.Sprintf(" SELECT version, template FROM %s WHERE db = %s;", table, quote(dbName))
}

func updateVersionDML(table, dbName, targetVersion string) string {
	return fmt.Sprintf(" UPDATE %s SET version = %s WHERE db = %s;", table, quote(targetVersion), quote(dbName))
}

func updateTemplateDML(table, dbName, templateName string) string {
	return fmt.Sprintf(" UPDATE %s SET template = %s WHERE db = %s;", table, quote(templateName), quote(dbName))
}

// quote renders a SQL string literal via the emitter's literal
// rendering, so config-row statements escape quotes the same way
// emitted DDL/DML does.
func quote(s string) string {
	lit, _ := emit.Literal(s)
	return lit
}
