// Package academy holds the classes an institution sells and the students
// subscribed to them. Student subscription status is driven only by payment
// provider events; nothing in this package lets an admin change it.
package academy
