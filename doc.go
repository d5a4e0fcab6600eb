/*
Command fieldviz prepares SDSS observation tables for the sky visibility
map, an altitude-azimuth chart of the fields, bright stars and moon over
a night at the observatory.

Contents

  Program overview
  Command line usage
  Configuration
  File formats
  Shaping rules


Program overview

Input is one observation table per night, a CSV file with one row per
object per timestep.  Objects are SDSS fields and bright stars.  Each row
carries the object's altitude and azimuth, the moon's position and phase,
and for fields whether the field is scheduled at that timestep.

The sky map draws three tables per night.  The field table holds every
field above the horizon at every timestep with a display status,
"Scheduled Now", "Available" or "Unavailable".  The star table holds the
bright stars above the horizon.  The moon table holds the moon position at
each timestep it is up, with an icon for the night's mean phase.  fieldviz
computes these tables and writes them as the JSON files the map loads.

Command line usage

  fieldviz shape <night.csv>          shape one night, JSON to stdout
  fieldviz shape -o <dir> <night.csv> write fields.json, stars.json, moon.json
  fieldviz export [night.csv...]      shape many nights into <out>/<mjd>/
  fieldviz base <chart.json>          strip data from a rendered chart
  fieldviz calendar [night.csv...]    per night moon and darkness summary
  fieldviz priority <in> <out>        add synthetic priorities
  fieldviz expand -s <sched> -c <stars> -o <night.csv>
                                      compute a night from a schedule
  fieldviz moon <mjd>                 moon at the site
  fieldviz -v                         display version and copyright

Flags common to all commands:

  --config <file>       YAML configuration
  --log-level <level>   debug, info, warn or error
  --log-format <fmt>    console or json

Export and calendar take night files as arguments.  With none they use the
files in --in matching export.pattern, by default
mjd-*-sdss-simple-expanded-priority.csv.  Export writes each night to a
directory named by the MJD in the file name.

Configuration

Built in defaults are overridden by a YAML file given with --config, which
is overridden by environment variables.  Variables are named FIELDVIZ_,
then the section, then the key, all upper case.  FIELDVIZ_SHAPE_MIN_ALT=30
sets shape.min_alt for example.

  shape:
    horizon       rows at or below this altitude are dropped, -0.5
    min_alt       unscheduled fields below are Unavailable, 40
    max_mag       stars this faint or fainter are dropped, 4.5
    mag_step      displayed magnitudes are rounded to this, 1
    utc_offset    hours from UT to site local time, -6
    digits        rounding of floats, 6
    sep_digits    rounding of moon separation, 1
    buckets       moon phase buckets, name, icon, lo, hi
  site:           name, lat, lon (east positive), elevation
  expand:         max_mag, max_airmass
  export:         precision, date_unit (ms, s or iso), out, pattern,
                  workers, pretty, indent
  priority:       repeatable, seed
  log:            level, format

File formats

Observation tables have a header line and an optional leading index
column.  Columns used are fieldID, objType ("sdss field" or
"bright star"), mjdExpStart, alt, az, airmass, moonRA, moonDec, moonAlt,
moonAz, moonSep, moonPhase, magnitude, risen, scheduled, observable,
priority and completion.  Shaping needs fieldID, objType, mjdExpStart, alt,
az, moonAlt, moonAz, moonSep, moonPhase, magnitude and scheduled.  Other
columns are ignored.

The field JSON records have keys alt, az, mS (moon separation), fid, fS
(status), st (local start time), tsid (time step), p (priority), c
(completion) and sch (scheduled at some step tonight).  Star records have
alt, az, tsid and "Stellar Magnitude".  Moon records have mAlt, mAz, tsid
and phase.

Shaping rules

1.  Floats are rounded to shape.digits places, moon separation to
shape.sep_digits.

2.  Rows at or below shape.horizon are dropped.  Stars must also be
brighter than shape.max_mag.

3.  Time steps number the distinct field timestamps in increasing order.
Stars and moon rows take the step of their timestamp.  A timestamp with no
field step is an error.

4.  A field scheduled at a step is "Scheduled Now" whatever its altitude.
Otherwise it is "Unavailable" below shape.min_alt and "Available" at or
above.

5.  The moon table has one row per distinct moon position.  Its phase icon
comes from the bucket containing the mean illuminated fraction of the
rows where the moon is up.

-------------
Public domain.
*/
package main
