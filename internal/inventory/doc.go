// Package inventory turns Device42 device records into an Ansible dynamic
// inventory.
//
// Normalize reduces one record to the fields used for grouping: lower-cased
// name and site, the network OS (ios-xe on ASR hardware is reported as ios),
// the management address and five custom fields. Records without a name, OS
// or building are rejected with a *MissingFieldError.
//
// An Aggregator folds normalized devices into a Document. Each host joins
// the "all" group, a group named after its OS, a group named after its site,
// and a zone subgroup nested under the site entry. Its variables land in
// _meta.hostvars. Folding is idempotent per host.
//
// Builder drives both steps over a whole collection and reports the records
// it had to skip.
package inventory
