package repository

import "gorm.io/gorm"

// invoiceByID returns a GORM scope that selects a single invoice
func invoiceByID(id int64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

// insertionOrder orders invoices the way they were created. Ids only grow, so
// id order is creation order.
func insertionOrder(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}
