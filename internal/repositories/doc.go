// Package repositories implements SQLite persistence for the link cache.
//
// [LinkRepository] stores the video id found for each normalized search query so repeated exports of the same tracks skip
// the search. Only successful searches are stored; a lookup that finds an entry increments its hit counter.
// It satisfies the services.LinkCache interface.
package repositories
