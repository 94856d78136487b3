package connection

import (
	"database/sql"

	"gorm.io/gorm"
)

// BindTx returns a session whose statements all execute on tx instead of the
// pool. Same mechanism gorm's own Begin uses: swap the session's ConnPool.
// Repositories use it so WithTx actually joins the caller's transaction.
func BindTx(base *gorm.DB, tx *sql.Tx) *gorm.DB {
	session := base.Session(&gorm.Session{Context: base.Statement.Context, NewDB: true})
	session.Statement.ConnPool = tx
	return session
}
