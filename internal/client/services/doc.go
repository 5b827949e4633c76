// Package services holds the client's application services: the article
// catalogue over the local database and the image uploader used by the
// admin form.
package services
