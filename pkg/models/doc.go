// Package models defines the eight compliance entities tracked by eudrtrack,
// their patch types and the collection descriptors that name where each
// entity lives in local storage and in the remote CMS.
//
// Every entity embeds Record, which carries the id and the creation and
// modification timestamps. Patches use pointer fields: a nil field is absent
// and leaves the stored value untouched when the patch is applied.
package models
